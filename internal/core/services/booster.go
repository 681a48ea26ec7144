package services

import (
	"math"
	"strings"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// Feedback boost reasons surfaced in responses.
const (
	boostLikedArtist    = "liked_artist"
	boostDislikedArtist = "disliked_artist"
	boostNoFeatures     = "no_features"
	boostNoData         = "no_data"
	boostPerfectMatch   = "perfect_match"
	boostGoodMatch      = "good_match"
	boostNeutral        = "neutral"
	boostPoorMatch      = "poor_match"
)

// boostContext holds one run's worth of feedback aggregates so the scorer
// never touches the store per track.
type boostContext struct {
	cfg      *Config
	liked    map[string]bool
	disliked map[string]bool
	prefs    domain.FeaturePreferences
}

// neutralBoost is used when the store is unavailable: every multiplier is 1.0.
func neutralBoost(cfg *Config) *boostContext {
	return &boostContext{cfg: cfg, liked: map[string]bool{}, disliked: map[string]bool{}}
}

func newBoostContext(cfg *Config, liked, disliked []domain.ArtistFeedback, prefs domain.FeaturePreferences) *boostContext {
	b := neutralBoost(cfg)
	for _, a := range liked {
		b.liked[strings.ToLower(a.Artist)] = true
	}
	for _, a := range disliked {
		b.disliked[strings.ToLower(a.Artist)] = true
	}
	b.prefs = prefs
	return b
}

// multiplierFor combines the artist-level and feature-level multipliers for
// one track. A liked artist wins over a disliked co-credit.
func (b *boostContext) multiplierFor(t domain.Track) (float64, string) {
	multiplier := 1.0
	reason := ""

	switch {
	case b.anyArtistIn(t, b.liked):
		multiplier *= b.cfg.LikedBoost
		reason = boostLikedArtist
	case b.anyArtistIn(t, b.disliked):
		multiplier *= b.cfg.DislikedPenalty
		reason = boostDislikedArtist
	}

	featMultiplier, featReason := featureBoost(b.prefs, t.Features)
	multiplier *= featMultiplier
	if reason == "" {
		reason = featReason
	} else {
		reason = reason + "," + featReason
	}
	return multiplier, reason
}

func (b *boostContext) anyArtistIn(t domain.Track, set map[string]bool) bool {
	if len(set) == 0 {
		return false
	}
	for _, a := range t.Artists {
		if set[strings.ToLower(strings.TrimSpace(a))] {
			return true
		}
	}
	return false
}

// featureBoost compares track features against the learned preference bands.
// It is inert (1.0) until enough liked history exists.
func featureBoost(prefs domain.FeaturePreferences, f domain.AudioFeatures) (float64, string) {
	if f == (domain.AudioFeatures{}) {
		return 1.0, boostNoFeatures
	}
	if !prefs.HasEnoughData || len(prefs.Ranges) == 0 {
		return 1.0, boostNoData
	}

	total := 0
	matching := 0
	proximitySum := 0.0

	for name, rng := range prefs.Ranges {
		value, ok := featureValue(f, name)
		if !ok {
			continue
		}
		total++
		if value >= rng.Min && value <= rng.Max {
			matching++
		}
		rangeSize := rng.Max - rng.Min
		proximity := 1.0
		if rangeSize > 0 {
			proximity = 1 - math.Abs(value-rng.Target)/rangeSize
		}
		proximitySum += proximity
	}

	if total == 0 {
		return 1.0, boostNoData
	}

	matchPct := float64(matching) / float64(total)
	avgProximity := proximitySum / float64(total)

	switch {
	case matchPct >= 0.8 && avgProximity >= 0.7:
		return 1.25, boostPerfectMatch
	case matchPct >= 0.6 && avgProximity >= 0.5:
		return 1.15, boostGoodMatch
	case matchPct >= 0.4:
		return 1.0, boostNeutral
	default:
		return 0.85, boostPoorMatch
	}
}

func featureValue(f domain.AudioFeatures, name string) (float64, bool) {
	switch name {
	case "energy":
		return f.Energy, true
	case "valence":
		return f.Valence, true
	case "danceability":
		return f.Danceability, true
	case "acousticness":
		return f.Acousticness, true
	case "tempo":
		return f.Tempo, true
	default:
		return 0, false
	}
}
