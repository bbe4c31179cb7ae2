package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/tunes/internal/domain"
	"github.com/mmcdole/tunes/internal/i18n"
	"github.com/mmcdole/tunes/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// HitCard renders one search hit: artist, track and genre lines
type HitCard struct {
	Hit      domain.ArtistHit
	Term     string
	Selected bool
	Width    int
}

// Render draws the card using the catalog's artist_name, track_name and genre messages
func (c HitCard) Render(catalog *i18n.Catalog) string {
	inner := c.Width - 4 // border + padding
	if inner < 10 {
		inner = 10
	}

	name := styles.Truncate(c.Hit.ArtistName, inner)
	lines := []string{
		catalog.T("artist_name", i18n.Values{"name": highlightMatches(name, MatchIndexes(c.Term, name), c.Selected)}),
		styles.Truncate(catalog.T("track_name", i18n.Values{"trackName": c.Hit.TrackName}), inner),
		styles.DimStyle.Render(styles.Truncate(catalog.T("genre", i18n.Values{"genre": c.Hit.PrimaryGenreName}), inner)),
	}

	style := styles.HitCardStyle
	if c.Selected {
		style = styles.HitCardSelectedStyle
	}
	return style.Width(c.Width - 2).Render(strings.Join(lines, "\n"))
}

// MatchIndexes returns the byte offsets in text of the characters matched by term
func MatchIndexes(term, text string) []int {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return nil
	}
	matches := fuzzy.Find(term, []string{text})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}

// highlightMatches renders text with matched characters highlighted
func highlightMatches(text string, matchedIndexes []int, selected bool) string {
	if len(matchedIndexes) == 0 {
		return text
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	matchStyle := styles.MatchHighlightStyle
	if selected {
		matchStyle = styles.MatchHighlightSelectedStyle
	}

	// Batch consecutive characters with the same style
	var result, batch strings.Builder
	inMatch := false
	flush := func() {
		if batch.Len() == 0 {
			return
		}
		if inMatch {
			result.WriteString(matchStyle.Render(batch.String()))
		} else {
			result.WriteString(batch.String())
		}
		batch.Reset()
	}
	for i, r := range text {
		if matchSet[i] != inMatch {
			flush()
			inMatch = matchSet[i]
		}
		batch.WriteRune(r)
	}
	flush()

	return result.String()
}

// CardHeight returns the rendered height of s
func CardHeight(s string) int {
	return lipgloss.Height(s)
}
