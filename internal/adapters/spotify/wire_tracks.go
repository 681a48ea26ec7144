package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
	"github.com/storybeats-labs/storybeats/internal/core/ports"
)

// trackBatchSize is Spotify's cap on the /tracks and /audio-features list
// endpoints.
const trackBatchSize = 50

// TracksByID fetches full track objects for a list of IDs, preserving input
// order. IDs the catalog does not know are dropped.
func (c *Client) TracksByID(ctx context.Context, ids []string) ([]domain.Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tracks := make([]domain.Track, 0, len(ids))
	for start := 0; start < len(ids); start += trackBatchSize {
		end := start + trackBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		tracksURL, err := url.Parse(c.baseURL + "/tracks")
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: invalid tracks url: %w", err)
		}
		query := tracksURL.Query()
		query.Set("ids", strings.Join(ids[start:end], ","))
		tracksURL.RawQuery = query.Encode()

		var body tracksResponse
		if err := c.getJSON(ctx, tracksURL.String(), &body); err != nil {
			return nil, fmt.Errorf("spotify adapter: tracks lookup failed: %w", err)
		}
		for _, st := range body.Tracks {
			if st.ID == "" {
				continue // null entry for an unknown id
			}
			tracks = append(tracks, mapTrackToDomain(st))
		}
	}

	return tracks, nil
}

// AudioFeatures fetches measured audio features for up to 50 tracks per
// batch. A 403 or 404 maps to ports.ErrFeaturesUnavailable so the engine can
// switch to estimation for the whole run.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error) {
	features := make(map[string]domain.AudioFeatures, len(ids))
	if len(ids) == 0 {
		return features, nil
	}

	for start := 0; start < len(ids); start += trackBatchSize {
		end := start + trackBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		featuresURL, err := url.Parse(c.baseURL + "/audio-features")
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: invalid features url: %w", err)
		}
		query := featuresURL.Query()
		query.Set("ids", strings.Join(ids[start:end], ","))
		featuresURL.RawQuery = query.Encode()

		var body audioFeaturesResponse
		if err := c.getJSON(ctx, featuresURL.String(), &body); err != nil {
			var se *statusError
			if errors.As(err, &se) && (se.code == http.StatusForbidden || se.code == http.StatusNotFound) {
				c.logger.Warn().Int("status", se.code).Msg("⚠️ audio features endpoint unavailable")
				return nil, fmt.Errorf("spotify adapter: %w", ports.ErrFeaturesUnavailable)
			}
			return nil, fmt.Errorf("spotify adapter: features lookup failed: %w", err)
		}

		for _, f := range body.AudioFeatures {
			if f.ID == "" {
				continue // Spotify returns null for some tracks
			}
			features[f.ID] = mapFeaturesToDomain(f)
		}
	}

	return features, nil
}
