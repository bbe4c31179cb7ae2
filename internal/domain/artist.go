package domain

// ArtistHit is a single track result returned by the lookup service.
// ArtistName, TrackName and PrimaryGenreName are always rendered; the rest
// is carried through when the API provides it.
type ArtistHit struct {
	ArtistID         int64  `json:"artistId,omitempty"`
	TrackID          int64  `json:"trackId,omitempty"`
	ArtistName       string `json:"artistName"`
	TrackName        string `json:"trackName"`
	PrimaryGenreName string `json:"primaryGenreName"`
	CollectionName   string `json:"collectionName,omitempty"`
	TrackViewURL     string `json:"trackViewUrl,omitempty"`
	ReleaseDate      string `json:"releaseDate,omitempty"`
}

// SearchResult is a successful lookup payload
type SearchResult struct {
	ResultCount int         `json:"resultCount"`
	Results     []ArtistHit `json:"results"`
}

// Len returns the number of hits, safe on nil
func (r *SearchResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Results)
}

// Hits returns the ordered hits, safe on nil
func (r *SearchResult) Hits() []ArtistHit {
	if r == nil {
		return nil
	}
	return r.Results
}

// ErrorInfo is the user-facing shape of a failed lookup.
// Message is either a catalog id (e.g. "something_went_wrong") or the
// message reported by the API.
type ErrorInfo struct {
	Message string `json:"message"`
}
