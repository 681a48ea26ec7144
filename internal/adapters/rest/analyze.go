package rest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

const (
	maxUploadBytes = 16 << 20

	// Pixel budget that keeps decompression bombs away from the vision model.
	maxImagePixels    = 178956970
	maxImageDimension = 16384
	minImageDimension = 10
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type analyzeResponse struct {
	Success        bool                 `json:"success"`
	SessionID      string               `json:"session_id"`
	Analysis       domain.MoodProfile   `json:"analysis"`
	Songs          []domain.ScoredTrack `json:"songs"`
	TotalAvailable int                  `json:"total_available"`
	LanguageCounts map[string]int       `json:"language_counts,omitempty"`
	Degraded       bool                 `json:"degraded,omitempty"`
}

// Analyze handles POST /api/analyze: one photo in, one scored batch out.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	// 1. Bound the upload before the multipart reader touches the body.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("photo")
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Photo exceeds the %dMB upload limit", maxUploadBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "No photo provided")
		return
	}
	defer file.Close()

	// 2. Validate the file name.
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest, "Invalid file type. Allowed: png, jpg, jpeg, gif, webp")
		return
	}

	photo, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Photo exceeds the %dMB upload limit", maxUploadBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "Could not read the uploaded photo")
		return
	}

	// 3. Validate the content so a renamed archive never reaches the model.
	if msg, ok := validateImage(photo); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// 4. Run the full pipeline.
	batch, err := h.engine.AnalyzeAndRecommend(r.Context(), photo)
	if err != nil {
		h.logger.Error().Err(err).Msg("analyze pipeline failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:        true,
		SessionID:      batch.SessionID,
		Analysis:       batch.Analysis,
		Songs:          batch.FirstBatch,
		TotalAvailable: batch.TotalAvailable(),
		LanguageCounts: batch.LanguageCounts,
		Degraded:       batch.Degraded,
	})
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// validateImage checks that the bytes really are a supported image with sane
// dimensions. WebP is sniffed by its RIFF header only; the standard decoders
// cover the rest.
func validateImage(photo []byte) (string, bool) {
	if isWebP(photo) {
		return "", true
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil {
		return "Invalid image file", false
	}

	if pixels := cfg.Width * cfg.Height; pixels > maxImagePixels {
		return fmt.Sprintf("Image too large: %dx%d (%d pixels). Maximum: %d pixels", cfg.Width, cfg.Height, pixels, maxImagePixels), false
	}
	if cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return fmt.Sprintf("Image dimensions too large: %dx%d. Maximum: %dx%d", cfg.Width, cfg.Height, maxImageDimension, maxImageDimension), false
	}
	if cfg.Width < minImageDimension || cfg.Height < minImageDimension {
		return fmt.Sprintf("Image too small: %dx%d. Minimum: %dx%d", cfg.Width, cfg.Height, minImageDimension, minImageDimension), false
	}
	return "", true
}

func isWebP(b []byte) bool {
	return len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP"))
}
