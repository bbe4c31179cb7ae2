package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/tunes/internal/adapter"
	"github.com/mmcdole/tunes/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the lookup cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached lookups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := adapter.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := clearLookupCache(cfg.Cache.Dir, cfg.Lookup.BaseURL); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared lookup cache at %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// clearLookupCache empties the lookup database kept for endpoint under dir
func clearLookupCache(dir, endpoint string) error {
	if dir == "" {
		return nil
	}
	cache, err := store.NewLookupStore(dir, endpoint)
	if err != nil {
		return fmt.Errorf("failed to open lookup cache: %w", err)
	}
	defer cache.Close()

	if err := cache.InvalidateAll(); err != nil {
		return fmt.Errorf("failed to clear lookup cache: %w", err)
	}
	return nil
}
