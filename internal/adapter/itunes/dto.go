package itunes

import "github.com/mmcdole/tunes/internal/domain"

// SearchResponse is the body of a successful /search call
type SearchResponse struct {
	ResultCount int        `json:"resultCount"`
	Results     []TrackDTO `json:"results"`
}

// TrackDTO is one entry of SearchResponse.Results. The API returns many more
// fields; only the ones we surface are decoded.
type TrackDTO struct {
	WrapperType      string `json:"wrapperType"`
	Kind             string `json:"kind"`
	ArtistID         int64  `json:"artistId"`
	TrackID          int64  `json:"trackId"`
	ArtistName       string `json:"artistName"`
	TrackName        string `json:"trackName"`
	CollectionName   string `json:"collectionName"`
	PrimaryGenreName string `json:"primaryGenreName"`
	TrackViewURL     string `json:"trackViewUrl"`
	ReleaseDate      string `json:"releaseDate"`
}

// ErrorResponse is the body the API returns with 4xx statuses
type ErrorResponse struct {
	ErrorMessage string         `json:"errorMessage"`
	QueryParams  map[string]any `json:"queryParameters"`
}

// MapSearchResponse converts the API payload to a domain result, keeping order
func MapSearchResponse(resp SearchResponse) domain.SearchResult {
	hits := make([]domain.ArtistHit, 0, len(resp.Results))
	for _, t := range resp.Results {
		hits = append(hits, domain.ArtistHit{
			ArtistID:         t.ArtistID,
			TrackID:          t.TrackID,
			ArtistName:       t.ArtistName,
			TrackName:        t.TrackName,
			PrimaryGenreName: t.PrimaryGenreName,
			CollectionName:   t.CollectionName,
			TrackViewURL:     t.TrackViewURL,
			ReleaseDate:      t.ReleaseDate,
		})
	}
	return domain.SearchResult{
		ResultCount: resp.ResultCount,
		Results:     hits,
	}
}
