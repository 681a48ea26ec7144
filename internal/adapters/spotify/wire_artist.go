package spotify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
	"github.com/storybeats-labs/storybeats/internal/core/ports"
)

// SearchArtist resolves a curated artist name to their catalog identity. A
// result that is not confidently the asked-for artist is treated as not found.
func (c *Client) SearchArtist(ctx context.Context, name, market string) (domain.ArtistRef, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return domain.ArtistRef{}, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	query := searchURL.Query()
	query.Set("q", name)
	query.Set("type", "artist")
	query.Set("limit", "5")
	if market != "" {
		query.Set("market", market)
	}
	searchURL.RawQuery = query.Encode()

	var body searchArtistsResponse
	if err := c.getJSON(ctx, searchURL.String(), &body); err != nil {
		return domain.ArtistRef{}, fmt.Errorf("spotify adapter: artist search failed: %w", err)
	}

	if len(body.Artists.Items) == 0 {
		return domain.ArtistRef{}, fmt.Errorf("spotify adapter: %w", &ports.ArtistNotFoundError{Name: name, Market: market})
	}

	match, score, ok := bestArtistMatch(name, body.Artists.Items)
	if !ok {
		c.logger.Debug().Str("artist", name).Float64("best_score", score).Msg("no confident artist match")
		return domain.ArtistRef{}, fmt.Errorf("spotify adapter: %w", &ports.ArtistNotFoundError{Name: name, Market: market})
	}
	c.logger.Debug().Str("artist", name).Str("matched", match.Name).Float64("score", score).Msg("artist resolved")

	return domain.ArtistRef{ID: match.ID, Name: match.Name}, nil
}

// TopTracks fetches an artist's top tracks for a market. Spotify caps the
// endpoint at 10 tracks.
func (c *Client) TopTracks(ctx context.Context, artistID, market string) ([]domain.Track, error) {
	topURL, err := url.Parse(fmt.Sprintf("%s/artists/%s/top-tracks", c.baseURL, artistID))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid top tracks url: %w", err)
	}
	if market != "" {
		query := topURL.Query()
		query.Set("market", market)
		topURL.RawQuery = query.Encode()
	}

	var body topTracksResponse
	if err := c.getJSON(ctx, topURL.String(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: top tracks failed: %w", err)
	}

	return mapTracksToDomain(body.Tracks), nil
}
