package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// ErrArtistNotFound indicates catalog search returned no candidate above the
// confidence threshold.
var ErrArtistNotFound = errors.New("artist not found")

// ErrFeaturesUnavailable indicates the audio-features endpoint is not usable
// (deprecated, forbidden, or missing). Callers degrade to estimated features.
var ErrFeaturesUnavailable = errors.New("audio features unavailable")

// ArtistNotFoundError provides context for a failed artist lookup.
type ArtistNotFoundError struct {
	Name   string
	Market string
}

func (e ArtistNotFoundError) Error() string {
	if e.Name == "" {
		return ErrArtistNotFound.Error()
	}
	return fmt.Sprintf("no confident match found for artist %q in market %q", e.Name, e.Market)
}

func (e ArtistNotFoundError) Is(target error) bool {
	return target == ErrArtistNotFound
}

// CatalogProvider is the upstream music catalog the harvester pulls
// candidates from.
type CatalogProvider interface {
	SearchArtist(ctx context.Context, name, market string) (domain.ArtistRef, error)
	TopTracks(ctx context.Context, artistID, market string) ([]domain.Track, error)
	RecentAlbums(ctx context.Context, artistID, market string, since time.Time) ([]domain.AlbumRef, error)
	AlbumTrackIDs(ctx context.Context, albumID string, limit int) ([]string, error)
	TracksByID(ctx context.Context, ids []string) ([]domain.Track, error)
	AudioFeatures(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error)
}
