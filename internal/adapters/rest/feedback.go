package rest

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

type feedbackResponse struct {
	Success bool `json:"success"`
}

type feedbackStatsResponse struct {
	Success  bool                 `json:"success"`
	Stats    domain.FeedbackStats `json:"stats"`
	TopSongs []domain.LikedSong   `json:"top_songs"`
}

// SubmitFeedback handles POST /api/feedback.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode the Request Body
	var fb domain.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 2. Validate Input
	if fb.SessionID == "" || fb.SongID == "" {
		writeError(w, http.StatusBadRequest, "session_id and song_id are required")
		return
	}
	if fb.Value != 1 && fb.Value != -1 {
		writeError(w, http.StatusBadRequest, "feedback must be 1 or -1")
		return
	}

	// 3. Record it
	if err := h.engine.RecordFeedback(r.Context(), fb); err != nil {
		h.logger.Error().Err(err).Str("song", fb.SongID).Msg("feedback write failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, feedbackResponse{Success: true})
}

// FeedbackStats handles GET /api/feedback/stats.
func (h *Handler) FeedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, top, err := h.engine.FeedbackStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if top == nil {
		top = []domain.LikedSong{}
	}
	writeJSON(w, http.StatusOK, feedbackStatsResponse{Success: true, Stats: stats, TopSongs: top})
}
