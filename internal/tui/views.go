package tui

import (
	"strings"

	"github.com/mmcdole/tunes/internal/i18n"
	"github.com/mmcdole/tunes/internal/tui/components"
	"github.com/mmcdole/tunes/internal/tui/styles"
)

// refreshContent rebuilds the viewport from the current snapshot. The result
// list shows while loading or when there are hits; the notice card shows when
// idle with nothing to list.
func (m *Model) refreshContent() {
	if !m.Ready {
		return
	}

	width := m.viewport.Width
	hits := m.snapshot.Results.Hits()
	m.cardOffsets = m.cardOffsets[:0]

	var parts []string
	if len(hits) > 0 || m.Loading {
		parts = append(parts, m.renderList(width))
	}
	if !m.Loading && len(hits) == 0 {
		parts = append(parts, components.NoticeFor(m.snapshot).Render(m.catalog, width))
	}
	m.viewport.SetContent(strings.Join(parts, "\n"))
}

// renderList draws the result card and records the line offset of each hit
func (m *Model) renderList(width int) string {
	inner := width - 4 // border + padding

	if m.Loading {
		return styles.ListCardStyle.Width(width - 2).Render(components.RenderSkeleton(inner, m.SpinnerFrame))
	}

	s := m.snapshot
	var lines []string
	if s.QueryTerm != "" {
		lines = append(lines, styles.SubtitleStyle.Render(
			m.catalog.T("search_query_artist", i18n.Values{"artistName": s.QueryTerm})))
	}
	if total := s.Results.ResultCount; total != 0 {
		lines = append(lines, styles.AccentStyle.Render(
			m.catalog.T("matching_artists", i18n.Values{"totalCount": total})))
	}

	// The card's top border is line 0
	offset := 1 + len(lines)
	for i, hit := range s.Results.Hits() {
		card := components.HitCard{
			Hit:      hit,
			Term:     s.QueryTerm,
			Selected: i == m.cursor,
			Width:    inner,
		}.Render(m.catalog)
		m.cardOffsets = append(m.cardOffsets, offset)
		offset += components.CardHeight(card)
		lines = append(lines, card)
	}

	return styles.ListCardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// renderFooter shows the spinner while loading, then status, then key help
func (m Model) renderFooter(width int) string {
	switch {
	case m.Loading:
		return RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(m.catalog.T("searching", nil))
	case m.StatusMsg != "" && m.StatusIsErr:
		return styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, width))
	case m.StatusMsg != "":
		return styles.SuccessStyle.Render(styles.Truncate(m.StatusMsg, width))
	default:
		return styles.HelpDescStyle.Render(styles.Truncate(m.catalog.T("help_keys", nil), width))
	}
}

// RenderSpinner renders a spinner frame
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
