package domain

// ScoredTrack is a Track annotated with every term that went into its final
// score, kept around so responses and logs can explain a ranking.
type ScoredTrack struct {
	Track
	VibeScore          float64 `json:"vibe_score"`
	RecencyBonus       float64 `json:"recency_bonus"`
	PopularityTerm     float64 `json:"-"`
	FeedbackMultiplier float64 `json:"-"`
	FeedbackReason     string  `json:"feedback_reason,omitempty"`
	FinalScore         float64 `json:"final_score"`
	Confidence         float64 `json:"llm_confidence,omitempty"`
	Reranked           bool    `json:"llm_verified"`
}

// RecommendationBatch is the result of one full scoring run. FirstBatch is
// always a prefix of Superset; Superset is what "load more" pages through.
type RecommendationBatch struct {
	SessionID      string         `json:"session_id"`
	Analysis       MoodProfile    `json:"analysis"`
	FirstBatch     []ScoredTrack  `json:"songs"`
	Superset       []ScoredTrack  `json:"-"`
	LanguageCounts map[string]int `json:"language_counts"`
	Degraded       bool           `json:"degraded"`
}

// TotalAvailable reports how many tracks the session can still serve overall.
func (b RecommendationBatch) TotalAvailable() int {
	return len(b.Superset)
}
