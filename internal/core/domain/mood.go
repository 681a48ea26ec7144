package domain

import "strings"

// Cultural vibe values reported by image analysis. Anything unrecognized is
// treated as CultureGlobal.
const (
	CultureIndian  = "indian"
	CultureWestern = "western"
	CultureGlobal  = "global"
	CultureFusion  = "fusion"
)

// MoodProfile is the vibe target extracted from a photo. It drives the whole
// recommendation pipeline: mood selects the artist universe, the numeric
// features drive proximity scoring, and themes/keywords steer the language mix.
type MoodProfile struct {
	Mood             string   `json:"mood"`
	Energy           float64  `json:"energy"`
	Valence          float64  `json:"valence"`
	Danceability     float64  `json:"danceability"`
	Acousticness     float64  `json:"acousticness"`
	Instrumentalness float64  `json:"instrumentalness"`
	Tempo            float64  `json:"tempo"`
	Themes           []string `json:"themes"`
	Genres           []string `json:"genres"`
	Keywords         []string `json:"keywords"`
	Description      string   `json:"description"`
	MusicStyle       string   `json:"music_style"`
	CulturalVibe     string   `json:"cultural_vibe"`
}

// Clamp bounds every numeric field to its valid range so a sloppy analyzer
// response can never push scoring outside [0,1] (tempo: [40,220]).
func (p *MoodProfile) Clamp() {
	p.Energy = clamp01(p.Energy)
	p.Valence = clamp01(p.Valence)
	p.Danceability = clamp01(p.Danceability)
	p.Acousticness = clamp01(p.Acousticness)
	p.Instrumentalness = clamp01(p.Instrumentalness)
	if p.Tempo < 40 {
		p.Tempo = 40
	}
	if p.Tempo > 220 {
		p.Tempo = 220
	}
	p.CulturalVibe = strings.ToLower(strings.TrimSpace(p.CulturalVibe))
}

// DefaultMoodProfile is the fallback used whenever image analysis is
// unavailable or returns garbage. The values describe a generic upbeat photo.
func DefaultMoodProfile() MoodProfile {
	return MoodProfile{
		Mood:             "happy",
		Energy:           0.6,
		Valence:          0.7,
		Danceability:     0.5,
		Acousticness:     0.4,
		Instrumentalness: 0.2,
		Tempo:            110,
		Themes:           []string{"general", "lifestyle", "moments"},
		Genres:           []string{"pop", "indie", "electronic"},
		Keywords:         []string{"vibes", "chill", "lifestyle", "moments", "mood"},
		MusicStyle:       "upbeat pop with good vibes",
		CulturalVibe:     CultureGlobal,
	}
}

// MoodCategory groups the curated artists and estimator baseline for one
// canonical mood. Categories are built from configuration at startup.
type MoodCategory struct {
	Name           string
	EnglishArtists []string
	HindiArtists   []string
	Baseline       AudioFeatures
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
