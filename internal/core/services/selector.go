package services

import (
	"strings"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// languageMix derives how many of the first five slots go to each language.
// The cultural vibe sets the base split, then theme/keyword indicators can
// shift it by one slot either way.
func languageMix(cfg *Config, profile domain.MoodProfile) (english, hindi int) {
	english, hindi = 3, 2
	switch profile.CulturalVibe {
	case domain.CultureIndian:
		english, hindi = 2, 3
	case domain.CultureWestern:
		english, hindi = 4, 1
	}

	text := strings.ToLower(strings.Join(append(append([]string{}, profile.Themes...), profile.Keywords...), " "))
	indianScore := countIndicators(text, cfg.Indicators.Indian)
	westernScore := countIndicators(text, cfg.Indicators.Western)
	natureScore := countIndicators(text, cfg.Indicators.Nature)

	switch {
	case indianScore > westernScore+1:
		hindi = minInt(hindi+1, 4)
		english = maxInt(5-hindi, 1)
	case westernScore > indianScore+1:
		english = minInt(english+1, 4)
		hindi = maxInt(5-english, 1)
	case natureScore >= 2:
		english, hindi = 3, 2
	}
	return english, hindi
}

func countIndicators(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

// selectDiverse builds the superset from the scored pool. Phase 1 fills the
// first batch honoring the language targets, phase 2 alternates languages up
// to the superset size. Both phases skip artists already at the cap and
// tracks already taken. Every loop either appends a track or exhausts a
// cursor, so termination does not depend on pool contents.
func selectDiverse(cfg *Config, scored []domain.ScoredTrack, englishTarget, hindiTarget int) ([]domain.ScoredTrack, map[string]int) {
	var englishPool, hindiPool []domain.ScoredTrack
	for _, s := range scored {
		if s.Language == domain.LanguageHindi {
			hindiPool = append(hindiPool, s)
		} else {
			englishPool = append(englishPool, s)
		}
	}

	selected := make([]domain.ScoredTrack, 0, cfg.SupersetSize)
	artistCount := make(map[string]int)
	used := make(map[string]bool)

	take := func(pool []domain.ScoredTrack, cursor *int) bool {
		for *cursor < len(pool) {
			candidate := pool[*cursor]
			*cursor++
			if used[candidate.ID] {
				continue
			}
			key := candidate.ArtistKey()
			if artistCount[key] >= cfg.MaxTracksPerArtist {
				continue
			}
			selected = append(selected, candidate)
			used[candidate.ID] = true
			artistCount[key]++
			return true
		}
		return false
	}

	var englishCursor, hindiCursor, mixedCursor int

	// Phase 1: the first batch, honoring the language split.
	englishTaken, hindiTaken := 0, 0
	for len(selected) < cfg.FirstBatchSize && (englishTaken < englishTarget || hindiTaken < hindiTarget) {
		if englishTaken < englishTarget && take(englishPool, &englishCursor) {
			englishTaken++
			continue
		}
		if hindiTaken < hindiTarget && take(hindiPool, &hindiCursor) {
			hindiTaken++
			continue
		}
		break
	}
	// Short first batch: back-fill with the best remaining tracks regardless
	// of language. scored is already sorted, so a cursor walk picks by score.
	for len(selected) < cfg.FirstBatchSize {
		if !take(scored, &mixedCursor) {
			break
		}
	}

	// Phase 2: grow to the superset size, steering toward the language with
	// fewer additions so deep pages stay mixed. Ties go to English.
	addedEnglish, addedHindi := 0, 0
	for len(selected) < cfg.SupersetSize {
		var ok bool
		if addedEnglish <= addedHindi {
			if ok = take(englishPool, &englishCursor); ok {
				addedEnglish++
			} else if ok = take(hindiPool, &hindiCursor); ok {
				addedHindi++
			}
		} else {
			if ok = take(hindiPool, &hindiCursor); ok {
				addedHindi++
			} else if ok = take(englishPool, &englishCursor); ok {
				addedEnglish++
			}
		}
		if !ok {
			break
		}
	}

	counts := map[string]int{domain.LanguageEnglish: 0, domain.LanguageHindi: 0}
	for _, s := range selected {
		counts[s.Language]++
	}
	return selected, counts
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
