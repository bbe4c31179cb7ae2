package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/i18n"
	"github.com/mmcdole/tunes/internal/service"
	"github.com/mmcdole/tunes/internal/state"
	"github.com/mmcdole/tunes/internal/tui/styles"
)

var (
	searchJSON bool
	searchRank bool
)

var searchCmd = &cobra.Command{
	Use:   "search TERM...",
	Short: "Search once and print the matching tracks",
	Long: `Run a single artist search and print the results.

Output is a readable list on a terminal and JSON otherwise (or with --json).

Examples:
  tunes search prince             # List tracks by artists matching "prince"
  tunes search prince --rank      # Closest artist names first
  tunes search daft punk --json | jq '.results[].trackName'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
	searchCmd.Flags().BoolVar(&searchRank, "rank", false, "Order hits by how closely the artist name matches")
	rootCmd.AddCommand(searchCmd)
}

// failedSearchError carries the message of a failed lookup
type failedSearchError struct {
	Message string
}

func (e *failedSearchError) Error() string {
	return "search failed: " + e.Message
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return domain.ErrEmptyTerm
	}

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Lookup.Timeout+5*time.Second)
	defer cancel()

	result, err := searchOnce(ctx, a.store, query)
	if err != nil {
		var failed *failedSearchError
		if errors.As(err, &failed) {
			return fmt.Errorf("search failed: %s", a.catalog.T(failed.Message, nil))
		}
		return err
	}

	if searchRank {
		result.Results = service.RankHits(query, result.Results)
	}

	out := cmd.OutOrStdout()
	width, isTTY := terminalWidth(out)
	if searchJSON || !isTTY {
		return writeJSON(out, result)
	}
	return writeHuman(out, a.catalog, query, result, width)
}

// searchOnce dispatches a search for query through the store and waits for its outcome
func searchOnce(ctx context.Context, st *state.Store, query string) (domain.SearchResult, error) {
	updates, unsubscribe := st.Subscribe()
	defer unsubscribe()

	st.Dispatch(state.RequestSearch{Term: query})

	for {
		select {
		case s, ok := <-updates:
			if !ok {
				return domain.SearchResult{}, errors.New("store closed before the search finished")
			}
			if s.QueryTerm != query || !s.Loaded() {
				continue
			}
			if s.Err != nil {
				return domain.SearchResult{}, &failedSearchError{Message: s.Err.Message}
			}
			return *s.Results, nil

		case <-ctx.Done():
			return domain.SearchResult{}, fmt.Errorf("search timed out: %w", ctx.Err())
		}
	}
}

// terminalWidth reports the width of w when it is a terminal
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return width, true
}

func writeJSON(w io.Writer, result domain.SearchResult) error {
	if result.Results == nil {
		result.Results = []domain.ArtistHit{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeHuman(w io.Writer, catalog *i18n.Catalog, query string, result domain.SearchResult, width int) error {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(catalog.T("search_query_artist", i18n.Values{"artistName": query})))
	b.WriteString("\n")

	if len(result.Results) == 0 {
		b.WriteString(styles.DimStyle.Render(catalog.T("no_results_found", nil)))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if result.ResultCount != 0 {
		b.WriteString(styles.AccentStyle.Render(catalog.T("matching_artists", i18n.Values{"totalCount": result.ResultCount})))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, hit := range result.Results {
		line := fmt.Sprintf("%3d. %s  %s  %s", i+1,
			catalog.T("artist_name", i18n.Values{"name": hit.ArtistName}),
			catalog.T("track_name", i18n.Values{"trackName": hit.TrackName}),
			catalog.T("genre", i18n.Values{"genre": hit.PrimaryGenreName}),
		)
		b.WriteString(styles.Truncate(line, width))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
