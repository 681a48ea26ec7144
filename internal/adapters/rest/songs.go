package rest

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
	"github.com/storybeats-labs/storybeats/internal/core/services"
)

const errCodeSessionExpired = "SESSION_EXPIRED"

type moreSongsRequest struct {
	SessionID   string              `json:"session_id"`
	Analysis    *domain.MoodProfile `json:"analysis,omitempty"`
	ExcludedIDs []string            `json:"excluded_ids,omitempty"`
}

type moreSongsResponse struct {
	Success bool                 `json:"success"`
	Songs   []domain.ScoredTrack `json:"songs"`
	HasMore bool                 `json:"has_more"`
	// SessionID is set only when an expired session forced a fresh run; the
	// client should page with the new id from here on.
	SessionID string `json:"session_id,omitempty"`
}

// MoreSongs handles POST /api/more-songs.
func (h *Handler) MoreSongs(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode the Request Body
	var req moreSongsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" && req.Analysis == nil {
		writeError(w, http.StatusBadRequest, "session_id or analysis is required")
		return
	}

	// 2. Serve from the session cache while it is alive.
	if req.SessionID != "" {
		songs, more, err := h.engine.LoadMore(r.Context(), req.SessionID)
		switch {
		case err == nil:
			if songs == nil {
				songs = []domain.ScoredTrack{}
			}
			writeJSON(w, http.StatusOK, moreSongsResponse{Success: true, Songs: songs, HasMore: more})
			return
		case !errors.Is(err, services.ErrSessionNotFound):
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	// 3. Session expired: re-run the pipeline minus everything already served.
	if req.Analysis == nil {
		writeErrorWithCode(w, http.StatusNotFound, "Session expired. Resend the analysis to keep loading songs.", errCodeSessionExpired)
		return
	}
	batch, err := h.engine.RecommendExcluding(r.Context(), *req.Analysis, req.ExcludedIDs)
	if err != nil {
		h.logger.Error().Err(err).Msg("more-songs fallback failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, moreSongsResponse{
		Success:   true,
		Songs:     batch.FirstBatch,
		HasMore:   batch.TotalAvailable() > len(batch.FirstBatch),
		SessionID: batch.SessionID,
	})
}
