package spotify

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// Release date layouts Spotify emits, depending on the release's precision.
var albumDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// RecentAlbums lists an artist's albums and singles released on or after
// since, newest first. Releases whose date cannot be parsed are skipped.
func (c *Client) RecentAlbums(ctx context.Context, artistID, market string, since time.Time) ([]domain.AlbumRef, error) {
	albumsURL, err := url.Parse(fmt.Sprintf("%s/artists/%s/albums", c.baseURL, artistID))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid albums url: %w", err)
	}

	query := albumsURL.Query()
	query.Set("include_groups", "album,single")
	query.Set("limit", "50")
	if market != "" {
		query.Set("market", market)
	}
	albumsURL.RawQuery = query.Encode()

	var body artistAlbumsResponse
	if err := c.getJSON(ctx, albumsURL.String(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: albums failed: %w", err)
	}

	type dated struct {
		album    domain.AlbumRef
		released time.Time
	}
	recent := make([]dated, 0, len(body.Items))
	for _, item := range body.Items {
		released, ok := parseAlbumDate(item.ReleaseDate)
		if !ok || released.Before(since) {
			continue
		}
		recent = append(recent, dated{album: mapAlbumToDomain(item), released: released})
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].released.After(recent[j].released)
	})

	albums := make([]domain.AlbumRef, len(recent))
	for i, d := range recent {
		albums[i] = d.album
	}
	return albums, nil
}

// AlbumTrackIDs returns up to limit track IDs from an album.
func (c *Client) AlbumTrackIDs(ctx context.Context, albumID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 2
	}

	tracksURL, err := url.Parse(fmt.Sprintf("%s/albums/%s/tracks", c.baseURL, albumID))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid album tracks url: %w", err)
	}
	query := tracksURL.Query()
	query.Set("limit", strconv.Itoa(limit))
	tracksURL.RawQuery = query.Encode()

	var body albumTracksResponse
	if err := c.getJSON(ctx, tracksURL.String(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: album tracks failed: %w", err)
	}

	ids := make([]string, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func parseAlbumDate(date string) (time.Time, bool) {
	for _, layout := range albumDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
