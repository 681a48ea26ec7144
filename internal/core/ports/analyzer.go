package ports

import (
	"context"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// ImageAnalyzer turns a photo into a mood profile. Implementations must
// return a usable default profile rather than an error when the upstream
// model is unreachable; a non-nil error means even the fallback failed.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte) (domain.MoodProfile, error)
}

// Reranker reorders an already-scored track list using the original photo.
// On any failure implementations return the input slice unchanged along with
// the error; callers treat rerank failures as non-fatal.
type Reranker interface {
	Rerank(ctx context.Context, image []byte, profile domain.MoodProfile, tracks []domain.ScoredTrack) ([]domain.ScoredTrack, error)
}
