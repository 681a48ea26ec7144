package domain

// Feedback is one explicit like (+1) or dislike (-1) on a recommended song.
// Analysis and Features are attached server-side from the live session so the
// stored row can power mood-scoped and feature-level learning.
type Feedback struct {
	SessionID  string        `json:"session_id"`
	SongID     string        `json:"song_id"`
	SongName   string        `json:"song_name"`
	ArtistName string        `json:"artist_name"`
	Value      int           `json:"feedback"` // 1 or -1
	Analysis   MoodProfile   `json:"-"`
	Features   AudioFeatures `json:"-"`
}

// ArtistFeedback is a liked/disliked aggregate for one artist.
type ArtistFeedback struct {
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// LikedSong is a per-song aggregate where likes outweigh dislikes.
type LikedSong struct {
	SongID   string `json:"song_id"`
	SongName string `json:"song_name"`
	Artist   string `json:"artist_name"`
	Likes    int    `json:"likes"`
	Total    int    `json:"total_feedback"`
}

// FeatureRange is a learned preference band for one audio feature.
type FeatureRange struct {
	Target      float64 `json:"target"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	SampleCount int     `json:"sample_count"`
}

// FeaturePreferences carries the learned feature bands for a mood, plus the
// counts that decide whether there is enough history to act on.
type FeaturePreferences struct {
	Ranges        map[string]FeatureRange `json:"preferred_ranges"`
	LikedCount    int                     `json:"liked_count"`
	DislikedCount int                     `json:"disliked_count"`
	HasEnoughData bool                    `json:"has_enough_data"`
	Mood          string                  `json:"mood"`
}

// FeedbackStats summarizes all recorded feedback.
type FeedbackStats struct {
	Likes    int     `json:"likes"`
	Dislikes int     `json:"dislikes"`
	Total    int     `json:"total"`
	LikeRate float64 `json:"like_rate"`
}
