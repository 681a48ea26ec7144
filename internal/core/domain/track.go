package domain

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound indicates a requested entity does not exist.
var ErrNotFound = errors.New("domain: not found")

// Language tags which curated artist list a track was harvested from.
const (
	LanguageEnglish = "english"
	LanguageHindi   = "hindi"
)

// Source tags how a track entered the candidate pool.
const (
	SourceTop    = "top"    // artist top-tracks endpoint
	SourceRecent = "recent" // releases inside the recency window
)

// FeatureSource records where a track's audio features came from. Estimated
// features get a relaxed vibe threshold during filtering.
type FeatureSource string

const (
	FeatureMeasured  FeatureSource = "measured"
	FeatureEstimated FeatureSource = "estimated"
)

// AudioFeatures holds the per-track numeric features used for vibe scoring.
type AudioFeatures struct {
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Danceability     float64 `json:"danceability"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Tempo            float64 `json:"tempo"`
}

// Clamp bounds every feature to [0,1] and tempo to [60,180].
func (f *AudioFeatures) Clamp() {
	f.Energy = clamp01(f.Energy)
	f.Valence = clamp01(f.Valence)
	f.Danceability = clamp01(f.Danceability)
	f.Acousticness = clamp01(f.Acousticness)
	f.Instrumentalness = clamp01(f.Instrumentalness)
	if f.Tempo < 60 {
		f.Tempo = 60
	}
	if f.Tempo > 180 {
		f.Tempo = 180
	}
}

// ArtistRef is a curated artist resolved against the upstream catalog.
type ArtistRef struct {
	ID       string
	Name     string
	Language string
}

// AlbumRef is one release returned by the catalog's album listing.
type AlbumRef struct {
	ID          string
	Name        string
	ReleaseDate string
}

// Track is a candidate song in the domain layer.
type Track struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Artists        []string      `json:"artists"`
	AlbumName      string        `json:"album"`
	ReleaseDate    string        `json:"release_date"` // YYYY, YYYY-MM or YYYY-MM-DD
	Popularity     int           `json:"popularity"`
	DurationMs     int           `json:"duration_ms"`
	CoverURL       string        `json:"image_url,omitempty"`
	PreviewURL     string        `json:"preview_url,omitempty"`
	ExternalURL    string        `json:"external_url,omitempty"`
	Language       string        `json:"language"`
	SourceType     string        `json:"source_type"`
	HarvestedBy    string        `json:"-"` // curated artist this candidate came from
	Features       AudioFeatures `json:"audio_features"`
	FeatureSource  FeatureSource `json:"feature_source"`
	EstimateReason string        `json:"-"`
}

// ArtistKey returns the normalized key used for the per-artist diversity cap.
// Collaborations count as their own key so a feature does not exhaust the
// primary artist's slots.
func (t Track) ArtistKey() string {
	if len(t.Artists) == 0 {
		return t.ID
	}
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = strings.ToLower(strings.TrimSpace(a))
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}
