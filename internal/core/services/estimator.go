package services

import (
	"strconv"
	"strings"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// Feature estimation for tracks the catalog reports no measurements for.
// Start from the mood baseline, then nudge by artist style, by production
// cues in the track/album name, and by release year. The result is
// deterministic for a given input, which keeps rankings reproducible.

type artistPattern struct {
	tokens []string
	apply  func(*domain.AudioFeatures)
}

var englishArtistPatterns = []artistPattern{
	{
		// indie / acoustic singer-songwriters
		tokens: []string{"bon iver", "novo amor", "phoebe", "cigarettes after sex"},
		apply: func(f *domain.AudioFeatures) {
			f.Acousticness = raise(f.Acousticness, 0.3, 0.9)
			f.Energy = lower(f.Energy, 0.2, 0.2)
			f.Danceability = lower(f.Danceability, 0.2, 0.2)
		},
	},
	{
		// dream pop / electronic
		tokens: []string{"m83", "odesza", "beach house", "tame impala", "mgmt"},
		apply: func(f *domain.AudioFeatures) {
			f.Energy = raise(f.Energy, 0.1, 0.9)
			f.Acousticness = lower(f.Acousticness, 0.3, 0.1)
			f.Tempo = raise(f.Tempo, 10, 140)
		},
	},
	{
		// hip-hop / R&B
		tokens: []string{"frank ocean", "don toliver", "travis scott", "sza", "weeknd", "bryson"},
		apply: func(f *domain.AudioFeatures) {
			f.Energy = clampRange(f.Energy, 0.4, 0.7)
			f.Danceability = raise(f.Danceability, 0.1, 0.8)
			f.Tempo = clampRange(f.Tempo, 85, 115)
		},
	},
	{
		// indie rock
		tokens: []string{"arctic monkeys", "the strokes", "phoenix", "two door"},
		apply: func(f *domain.AudioFeatures) {
			f.Energy = raise(f.Energy, 0.15, 0.85)
			f.Acousticness = lower(f.Acousticness, 0.2, 0.15)
			f.Tempo = raise(f.Tempo, 5, 130)
		},
	},
}

var hindiArtistPatterns = []artistPattern{
	{
		// bollywood romantic vocalists
		tokens: []string{"arijit", "atif", "shreya", "armaan", "jubin"},
		apply: func(f *domain.AudioFeatures) {
			f.Valence = raise(f.Valence, 0.1, 0.8)
			f.Acousticness = raise(f.Acousticness, 0.2, 0.7)
			f.Energy = clampRange(f.Energy, 0.3, 0.6)
			f.Tempo = clampRange(f.Tempo, 80, 110)
		},
	},
	{
		// punjabi pop / desi hip-hop
		tokens: []string{"badshah", "divine", "raftaar", "diljit", "guru randhawa", "seedhe maut"},
		apply: func(f *domain.AudioFeatures) {
			f.Energy = raise(f.Energy, 0.2, 0.95)
			f.Danceability = raise(f.Danceability, 0.2, 0.95)
			f.Tempo = raise(f.Tempo, 15, 145)
			f.Acousticness = lower(f.Acousticness, 0.3, 0.05)
		},
	},
	{
		// indie singer-songwriters
		tokens: []string{"prateek", "anuv", "raghav", "when chai met toast", "local train", "lifafa"},
		apply: func(f *domain.AudioFeatures) {
			f.Acousticness = raise(f.Acousticness, 0.25, 0.85)
			f.Energy = lower(f.Energy, 0.15, 0.25)
			f.Valence = clampRange(f.Valence, 0.4, 0.7)
			f.Tempo = clampRange(f.Tempo, 75, 105)
		},
	},
	{
		// electronic producers
		tokens: []string{"nucleya", "sez on the beat", "dropped out"},
		apply: func(f *domain.AudioFeatures) {
			f.Energy = raise(f.Energy, 0.25, 0.95)
			f.Danceability = raise(f.Danceability, 0.25, 0.95)
			f.Acousticness = lower(f.Acousticness, 0.4, 0.05)
			f.Tempo = raise(f.Tempo, 20, 150)
		},
	},
	{
		// classical / sufi
		tokens: []string{"a.r. rahman", "hariharan", "shaan"},
		apply: func(f *domain.AudioFeatures) {
			f.Acousticness = raise(f.Acousticness, 0.2, 0.8)
			f.Energy = lower(f.Energy, 0.1, 0.3)
			f.Tempo = clampRange(f.Tempo, 70, 100)
		},
	},
}

var (
	remixTokens    = []string{"remix", "mix", "edit", "version"}
	acousticTokens = []string{"acoustic", "unplugged", "stripped", "piano"}
	liveTokens     = []string{"live", "session"}
)

// estimateFeatures infers audio features for a track without measurements.
// artistName is the curated artist the track was harvested under.
func estimateFeatures(baseline FeatureBaseline, artistName, language string, track domain.Track) domain.AudioFeatures {
	f := domain.AudioFeatures{
		Energy:       baseline.Energy,
		Valence:      baseline.Valence,
		Danceability: baseline.Danceability,
		Acousticness: baseline.Acousticness,
		Tempo:        baseline.Tempo,
	}

	patterns := englishArtistPatterns
	if language == domain.LanguageHindi {
		patterns = hindiArtistPatterns
	}
	artistLower := strings.ToLower(artistName)
	for _, p := range patterns {
		if containsAny(artistLower, p.tokens) {
			p.apply(&f)
			break // first matching style wins
		}
	}

	nameLower := strings.ToLower(track.Name + " " + track.AlbumName)
	if containsAny(nameLower, remixTokens) {
		f.Energy = raise(f.Energy, 0.15, 0.95)
		f.Danceability = raise(f.Danceability, 0.15, 0.95)
		f.Tempo = raise(f.Tempo, 10, 145)
	}
	if containsAny(nameLower, acousticTokens) {
		f.Acousticness = raise(f.Acousticness, 0.3, 0.95)
		f.Energy = lower(f.Energy, 0.25, 0.2)
	}
	if containsAny(nameLower, liveTokens) {
		f.Acousticness = raise(f.Acousticness, 0.15, 0.8)
	}

	if year, ok := releaseYear(track.ReleaseDate); ok {
		switch {
		case year >= 2023:
			f.Energy = raise(f.Energy, 0.05, 0.95)
		case year >= 2020:
			f.Energy = raise(f.Energy, 0.03, 0.9)
		}
		if year < 2010 {
			f.Acousticness = raise(f.Acousticness, 0.1, 0.85)
		}
	}

	f.Clamp()
	return f
}

func releaseYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 1900 {
		return 0, false
	}
	return year, true
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func raise(v, delta, ceiling float64) float64 {
	v += delta
	if v > ceiling {
		return ceiling
	}
	return v
}

func lower(v, delta, floor float64) float64 {
	v -= delta
	if v < floor {
		return floor
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
