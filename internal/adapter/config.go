package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "tunes"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Open    OpenConfig    `mapstructure:"open"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LookupConfig holds iTunes Search API settings
type LookupConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Country string        `mapstructure:"country"` // ISO 3166 two-letter code
	Limit   int           `mapstructure:"limit"`   // 1-200
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds lookup response cache settings
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"` // empty = memory only
	TTL     time.Duration `mapstructure:"ttl"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Debounce     time.Duration `mapstructure:"debounce"`
	MessagesFile string        `mapstructure:"messages_file"` // optional TOML overlay for the message catalog
}

// OpenConfig holds the command used to open track links
type OpenConfig struct {
	Command string   `mapstructure:"command"` // empty = system default handler
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Lookup: LookupConfig{
			BaseURL: "https://itunes.apple.com",
			Country: "US",
			Limit:   25,
			Timeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
			TTL:     time.Hour,
		},
		UI: UIConfig{
			Debounce: 200 * time.Millisecond,
		},
		Open: OpenConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// LoadConfig loads configuration from file and environment.
// An explicit path must exist; otherwise config.yaml is looked up in the
// default config directory and the working directory, and a missing file is fine.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	for _, p := range []*string{&cfg.Cache.Dir, &cfg.UI.MessagesFile} {
		expanded, err := expandHome(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper registers every key with its default so that environment
// overrides (TUNES_LOOKUP_COUNTRY, ...) apply even without a config file.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TUNES")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetDefault("lookup.base_url", cfg.Lookup.BaseURL)
	v.SetDefault("lookup.country", cfg.Lookup.Country)
	v.SetDefault("lookup.limit", cfg.Lookup.Limit)
	v.SetDefault("lookup.timeout", cfg.Lookup.Timeout)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("ui.debounce", cfg.UI.Debounce)
	v.SetDefault("ui.messages_file", cfg.UI.MessagesFile)
	v.SetDefault("open.command", cfg.Open.Command)
	v.SetDefault("open.args", cfg.Open.Args)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	return v
}

// Validate checks value ranges the lookup service enforces
func (c *Config) Validate() error {
	if c.Lookup.BaseURL == "" {
		return fmt.Errorf("lookup.base_url is required")
	}
	if c.Lookup.Limit < 1 || c.Lookup.Limit > 200 {
		return fmt.Errorf("lookup.limit must be between 1 and 200, got %d", c.Lookup.Limit)
	}
	if len(c.Lookup.Country) != 2 {
		return fmt.Errorf("lookup.country must be a two-letter code, got %q", c.Lookup.Country)
	}
	if c.UI.Debounce < 0 {
		return fmt.Errorf("ui.debounce must not be negative")
	}
	return nil
}

// SaveConfig writes cfg to the given file, or to the default location when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("lookup.base_url", cfg.Lookup.BaseURL)
	v.Set("lookup.country", cfg.Lookup.Country)
	v.Set("lookup.limit", cfg.Lookup.Limit)
	v.Set("lookup.timeout", cfg.Lookup.Timeout.String())
	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.ttl", cfg.Cache.TTL.String())
	v.Set("ui.debounce", cfg.UI.Debounce.String())
	v.Set("ui.messages_file", cfg.UI.MessagesFile)
	v.Set("open.command", cfg.Open.Command)
	v.Set("open.args", cfg.Open.Args)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
