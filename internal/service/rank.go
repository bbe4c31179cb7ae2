package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/tunes/internal/domain"
)

// RankHits orders hits by how closely the artist name matches term.
// The sort is stable, so equally good matches keep the service's order.
// The input slice is not modified.
func RankHits(term string, hits []domain.ArtistHit) []domain.ArtistHit {
	if len(hits) == 0 {
		return hits
	}

	term = strings.ToLower(strings.TrimSpace(term))

	type rankedHit struct {
		hit   domain.ArtistHit
		score int
	}

	ranked := make([]rankedHit, len(hits))
	for i, hit := range hits {
		ranked[i] = rankedHit{hit: hit, score: matchScore(strings.ToLower(hit.ArtistName), term)}
	}

	// Sort by score (lower is better)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	results := make([]domain.ArtistHit, len(ranked))
	for i, r := range ranked {
		results[i] = r.hit
	}
	return results
}

// matchScore calculates a match score for ranking
// Lower score = better match
func matchScore(name, term string) int {
	if name == term {
		return 0
	}
	if strings.HasPrefix(name, term) {
		return 10
	}
	if strings.Contains(name, term) {
		return 50
	}
	if fuzzy.MatchFold(term, name) {
		return 75
	}
	return 100 + fuzzy.LevenshteinDistance(term, name)
}
