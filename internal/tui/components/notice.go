package components

import (
	"github.com/mmcdole/tunes/internal/i18n"
	"github.com/mmcdole/tunes/internal/state"
	"github.com/mmcdole/tunes/internal/tui/styles"
)

// Notice is the message shown in place of results
type Notice struct {
	// ID is a catalog id, or a raw message from the lookup service
	ID    string
	Alert bool
}

// NoticeFor picks the notice for a slice that has no hits to show:
// the lookup's error, no_results_found when a term was searched, or
// artist_search_default before any search.
func NoticeFor(s state.SearchState) Notice {
	switch {
	case s.Err != nil:
		return Notice{ID: s.Err.Message, Alert: true}
	case !s.HasResults() && s.QueryTerm != "":
		return Notice{ID: "no_results_found"}
	default:
		return Notice{ID: "artist_search_default"}
	}
}

// Render draws the notice card titled with artist_list
func (n Notice) Render(catalog *i18n.Catalog, width int) string {
	style := styles.NeutralCardStyle
	if n.Alert {
		style = styles.AlertCardStyle
	}
	title := styles.CardTitleStyle.Render(catalog.T("artist_list", nil))
	return style.Width(width - 2).Render(title + "\n\n" + catalog.T(n.ID, nil))
}
