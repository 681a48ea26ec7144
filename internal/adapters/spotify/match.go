package spotify

import "strings"

// minArtistConfidence is the similarity floor below which a search result is
// rejected rather than risking harvesting a stranger's catalog.
const minArtistConfidence = 0.60

// bestArtistMatch picks the search candidate closest to the curated name.
// The returned score is the winning similarity.
func bestArtistMatch(query string, candidates []artistObject) (artistObject, float64, bool) {
	normalizedQuery := normalizeArtistName(query)
	if normalizedQuery == "" {
		return artistObject{}, 0, false
	}

	var best artistObject
	bestScore := 0.0
	for _, candidate := range candidates {
		normalizedName := normalizeArtistName(candidate.Name)
		if normalizedName == "" {
			continue
		}
		score := artistSimilarity(normalizedQuery, normalizedName)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}

	if bestScore < minArtistConfidence {
		return artistObject{}, bestScore, false
	}
	return best, bestScore, true
}

// artistSimilarity compares two normalized names. Containment counts as a
// near-match so stylized spellings ("Weeknd" vs "The Weeknd") survive.
func artistSimilarity(a string, b string) float64 {
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}
	return similarity(a, b)
}

func similarity(a string, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshteinDistance(a string, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,
				curr[j-1]+1,
				prev[j-1]+cost,
			)
		}
		copy(prev, curr)
	}

	return prev[len(rb)]
}
