package ports

import (
	"context"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// FeedbackStore persists sessions and like/dislike signals and serves the
// aggregates the booster consumes.
type FeedbackStore interface {
	RecordSession(ctx context.Context, sessionID string, image []byte, profile domain.MoodProfile) error
	RecordFeedback(ctx context.Context, fb domain.Feedback) error
	LikedArtists(ctx context.Context, mood string, minLikes int) ([]domain.ArtistFeedback, error)
	DislikedArtists(ctx context.Context, mood string, minDislikes int) ([]domain.ArtistFeedback, error)
	PreferredFeatureRanges(ctx context.Context, mood string) (domain.FeaturePreferences, error)
	SaveRerankedOrder(ctx context.Context, sessionID string, reranked, original []domain.ScoredTrack) error
	TopLikedSongs(ctx context.Context, limit int) ([]domain.LikedSong, error)
	Stats(ctx context.Context) (domain.FeedbackStats, error)
}
