package services

import (
	"math"
	"sort"
	"time"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// Proximity weights. These describe how much each feature contributes to the
// vibe score and are fixed; the blend of vibe/recency/popularity is what the
// config tunes.
const (
	energyWeight       = 0.30
	valenceWeight      = 0.30
	danceabilityWeight = 0.20
	acousticnessWeight = 0.10
	tempoWeight        = 0.10
	tempoScale         = 50 // BPM difference at which the tempo term hits zero
)

// vibeScore measures how close a track sits to the requested vibe, in [0,1].
// An exact match on every feature scores 1.0.
func vibeScore(profile domain.MoodProfile, f domain.AudioFeatures) float64 {
	score := (1 - math.Abs(f.Energy-profile.Energy)) * energyWeight
	score += (1 - math.Abs(f.Valence-profile.Valence)) * valenceWeight
	score += (1 - math.Abs(f.Danceability-profile.Danceability)) * danceabilityWeight
	score += (1 - math.Abs(f.Acousticness-profile.Acousticness)) * acousticnessWeight

	tempoTerm := 1 - math.Abs(f.Tempo-profile.Tempo)/tempoScale
	if tempoTerm < 0 {
		tempoTerm = 0
	}
	score += tempoTerm * tempoWeight

	return score
}

// Release date layouts the catalog emits, most precise first.
var releaseDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// recencyBonus maps a release date to a step bonus. Unparsable dates land in
// the middle rather than being rejected.
func recencyBonus(releaseDate string, now time.Time) float64 {
	var released time.Time
	parsed := false
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, releaseDate); err == nil {
			released = t
			parsed = true
			break
		}
	}
	if !parsed {
		return 0.5
	}

	ageDays := int(now.Sub(released).Hours() / 24)
	switch {
	case ageDays <= 180:
		return 1.0
	case ageDays <= 365:
		return 0.8
	case ageDays <= 540:
		return 0.6
	default:
		return 0.3
	}
}

// scoreAndFilter applies the popularity band and the vibe threshold, scores
// the survivors and returns them sorted by final score. The sort is stable so
// equal scores keep harvest order and identical inputs rank identically.
func scoreAndFilter(cfg *Config, profile domain.MoodProfile, tracks []domain.Track, boost *boostContext, now time.Time) []domain.ScoredTrack {
	scored := make([]domain.ScoredTrack, 0, len(tracks))

	for _, t := range tracks {
		if t.Popularity < cfg.PopularityMin || t.Popularity > cfg.PopularityMax {
			continue
		}

		threshold := cfg.VibeThreshold
		if t.FeatureSource == domain.FeatureEstimated {
			threshold = cfg.DegradedVibeThreshold
		}
		vibe := vibeScore(profile, t.Features)
		if vibe < threshold {
			continue
		}

		recency := recencyBonus(t.ReleaseDate, now)
		popularity := float64(t.Popularity) / 100
		multiplier, reason := boost.multiplierFor(t)

		final := (vibe*cfg.VibeWeight + recency*cfg.RecencyWeight + popularity*cfg.PopularityWeight) * multiplier

		scored = append(scored, domain.ScoredTrack{
			Track:              t,
			VibeScore:          vibe,
			RecencyBonus:       recency,
			PopularityTerm:     popularity,
			FeedbackMultiplier: multiplier,
			FeedbackReason:     reason,
			FinalScore:         final,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})
	return scored
}
