package services

import (
	"fmt"
	"math"
	"time"
)

// MoodConfig holds the curated artist lists and the estimator baseline for
// one canonical mood.
type MoodConfig struct {
	EnglishArtists []string        `koanf:"english_artists"`
	HindiArtists   []string        `koanf:"hindi_artists"`
	Baseline       FeatureBaseline `koanf:"baseline"`
}

// FeatureBaseline is the estimator starting point for a mood.
type FeatureBaseline struct {
	Energy       float64 `koanf:"energy"`
	Valence      float64 `koanf:"valence"`
	Danceability float64 `koanf:"danceability"`
	Acousticness float64 `koanf:"acousticness"`
	Tempo        float64 `koanf:"tempo"`
}

// IndicatorConfig lists the theme/keyword terms that shift the language mix.
type IndicatorConfig struct {
	Indian  []string `koanf:"indian"`
	Western []string `koanf:"western"`
	Nature  []string `koanf:"nature"`
}

// Config carries every tunable of the recommendation engine. Zero values are
// not usable; start from DefaultConfig and override.
type Config struct {
	// Harvesting.
	Workers               int               `koanf:"workers"`
	TopTracksPerArtist    int               `koanf:"top_tracks_per_artist"`
	RecentTracksPerArtist int               `koanf:"recent_tracks_per_artist"`
	RecentWindowDays      int               `koanf:"recent_window_days"`
	AlbumsPerArtist       int               `koanf:"albums_per_artist"`
	TracksPerAlbum        int               `koanf:"tracks_per_album"`
	Markets               map[string]string `koanf:"markets"`

	// Filtering and scoring.
	VibeThreshold         float64 `koanf:"vibe_threshold"`
	DegradedVibeThreshold float64 `koanf:"degraded_vibe_threshold"`
	PopularityMin         int     `koanf:"popularity_min"`
	PopularityMax         int     `koanf:"popularity_max"`
	VibeWeight            float64 `koanf:"vibe_weight"`
	RecencyWeight         float64 `koanf:"recency_weight"`
	PopularityWeight      float64 `koanf:"popularity_weight"`

	// Feedback boosting.
	LikedBoost      float64 `koanf:"liked_boost"`
	DislikedPenalty float64 `koanf:"disliked_penalty"`
	MinLikes        int     `koanf:"min_likes"`

	// Selection and pagination.
	MaxTracksPerArtist int `koanf:"max_tracks_per_artist"`
	FirstBatchSize     int `koanf:"first_batch_size"`
	SupersetSize       int `koanf:"superset_size"`
	PageSize           int `koanf:"page_size"`

	// Cache lifetimes.
	TopTracksTTL  time.Duration `koanf:"top_tracks_ttl"`
	AlbumsTTL     time.Duration `koanf:"albums_ttl"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// Mood catalog.
	DefaultMood  string                `koanf:"default_mood"`
	Moods        map[string]MoodConfig `koanf:"moods"`
	MoodSynonyms map[string]string     `koanf:"mood_synonyms"`
	Indicators   IndicatorConfig       `koanf:"indicators"`
}

// DefaultConfig returns the production defaults, including the full curated
// mood catalog.
func DefaultConfig() *Config {
	return &Config{
		Workers:               6,
		TopTracksPerArtist:    5,
		RecentTracksPerArtist: 10,
		RecentWindowDays:      540,
		AlbumsPerArtist:       10,
		TracksPerAlbum:        2,
		Markets: map[string]string{
			"english": "US",
			"hindi":   "IN",
		},

		VibeThreshold:         0.75,
		DegradedVibeThreshold: 0.5,
		PopularityMin:         47,
		PopularityMax:         85,
		VibeWeight:            0.5,
		RecencyWeight:         0.3,
		PopularityWeight:      0.2,

		LikedBoost:      1.3,
		DislikedPenalty: 0.7,
		MinLikes:        1,

		MaxTracksPerArtist: 2,
		FirstBatchSize:     5,
		SupersetSize:       30,
		PageSize:           5,

		TopTracksTTL:  time.Hour,
		AlbumsTTL:     30 * time.Minute,
		SessionTTL:    time.Hour,
		SweepInterval: 5 * time.Minute,

		DefaultMood:  "happy",
		Moods:        defaultMoodCatalog(),
		MoodSynonyms: defaultMoodSynonyms(),
		Indicators:   defaultIndicators(),
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.TopTracksPerArtist < 0 || c.RecentTracksPerArtist < 0 {
		return fmt.Errorf("per-artist track counts must not be negative")
	}
	if c.RecentWindowDays < 1 {
		return fmt.Errorf("recent_window_days must be at least 1, got %d", c.RecentWindowDays)
	}
	if c.VibeThreshold < 0 || c.VibeThreshold > 1 {
		return fmt.Errorf("vibe_threshold must be in [0,1], got %v", c.VibeThreshold)
	}
	if c.DegradedVibeThreshold < 0 || c.DegradedVibeThreshold > c.VibeThreshold {
		return fmt.Errorf("degraded_vibe_threshold must be in [0,vibe_threshold], got %v", c.DegradedVibeThreshold)
	}
	if c.PopularityMin < 0 || c.PopularityMax > 100 || c.PopularityMin > c.PopularityMax {
		return fmt.Errorf("popularity band [%d,%d] is invalid", c.PopularityMin, c.PopularityMax)
	}
	weightSum := c.VibeWeight + c.RecencyWeight + c.PopularityWeight
	if math.Abs(weightSum-1.0) > 1e-6 {
		return fmt.Errorf("score weights must sum to 1.0, got %v", weightSum)
	}
	if c.MaxTracksPerArtist < 1 {
		return fmt.Errorf("max_tracks_per_artist must be at least 1, got %d", c.MaxTracksPerArtist)
	}
	if c.FirstBatchSize < 1 || c.SupersetSize < c.FirstBatchSize {
		return fmt.Errorf("batch sizes first=%d superset=%d are invalid", c.FirstBatchSize, c.SupersetSize)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", c.PageSize)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %v", c.SessionTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %v", c.SweepInterval)
	}
	if len(c.Moods) == 0 {
		return fmt.Errorf("mood catalog is empty")
	}
	if _, ok := c.Moods[c.DefaultMood]; !ok {
		return fmt.Errorf("default_mood %q is not in the mood catalog", c.DefaultMood)
	}
	for name, mc := range c.Moods {
		if len(mc.EnglishArtists) == 0 && len(mc.HindiArtists) == 0 {
			return fmt.Errorf("mood %q has no curated artists", name)
		}
	}
	return nil
}
