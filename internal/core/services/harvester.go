package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/storybeats-labs/storybeats/internal/cache"
	"github.com/storybeats-labs/storybeats/internal/core/domain"
	"github.com/storybeats-labs/storybeats/internal/core/ports"
)

// featureBatchSize is the catalog's per-call cap on the features endpoint.
const featureBatchSize = 50

// harvester pulls candidate tracks for a mood's curated artists. It owns the
// upstream caches: artist identities never expire, track listings do.
type harvester struct {
	catalog ports.CatalogProvider
	cfg     *Config
	logger  zerolog.Logger
	now     func() time.Time

	artistIDs *cache.Store[domain.ArtistRef]
	topTracks *cache.Store[[]domain.Track]
	albums    *cache.Store[[]domain.AlbumRef]
}

func newHarvester(catalog ports.CatalogProvider, cfg *Config, logger zerolog.Logger, now func() time.Time) *harvester {
	return &harvester{
		catalog:   catalog,
		cfg:       cfg,
		logger:    logger.With().Str("component", "harvester").Logger(),
		now:       now,
		artistIDs: cache.NewWithClock[domain.ArtistRef](0, now),
		topTracks: cache.NewWithClock[[]domain.Track](cfg.TopTracksTTL, now),
		albums:    cache.NewWithClock[[]domain.AlbumRef](cfg.AlbumsTTL, now),
	}
}

type harvestJob struct {
	artist   string
	language string
}

// harvest fans per-artist jobs out over a bounded worker pool, joins, then
// deduplicates and attaches audio features. A failed artist yields nothing
// but never aborts the run. The returned bool reports degraded mode: the
// features endpoint was unusable and every track carries estimated features.
func (h *harvester) harvest(ctx context.Context, mc MoodConfig) ([]domain.Track, bool) {
	jobList := make([]harvestJob, 0, len(mc.EnglishArtists)+len(mc.HindiArtists))
	for _, name := range mc.EnglishArtists {
		jobList = append(jobList, harvestJob{artist: name, language: domain.LanguageEnglish})
	}
	for _, name := range mc.HindiArtists {
		jobList = append(jobList, harvestJob{artist: name, language: domain.LanguageHindi})
	}

	// Workers write into their own slot, so the merged pool keeps the curated
	// list order regardless of completion order. That keeps runs reproducible.
	results := make([][]domain.Track, len(jobList))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := h.cfg.Workers
	if workers > len(jobList) {
		workers = len(jobList)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = h.harvestArtist(ctx, jobList[idx])
			}
		}()
	}
	for idx := range jobList {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	seen := make(map[string]bool)
	var pool []domain.Track
	for _, tracks := range results {
		for _, t := range tracks {
			if t.ID == "" || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			pool = append(pool, t)
		}
	}

	pool, degraded := h.attachFeatures(ctx, pool, mc)
	h.logger.Debug().
		Int("artists", len(jobList)).
		Int("candidates", len(pool)).
		Bool("degraded", degraded).
		Msg("harvest complete")
	return pool, degraded
}

// harvestArtist collects one artist's top tracks and recent releases.
func (h *harvester) harvestArtist(ctx context.Context, job harvestJob) []domain.Track {
	market, ok := h.cfg.Markets[job.language]
	if !ok {
		market = "US"
	}

	ref, err := h.resolveArtist(ctx, job.artist, market)
	if err != nil {
		if errors.Is(err, ports.ErrArtistNotFound) {
			h.logger.Warn().Str("artist", job.artist).Str("market", market).Msg("artist not found, skipping")
		} else {
			h.logger.Warn().Err(err).Str("artist", job.artist).Msg("artist lookup failed, skipping")
		}
		return nil
	}

	var tracks []domain.Track
	tracks = append(tracks, h.topTracksFor(ctx, ref, market)...)
	tracks = append(tracks, h.recentTracksFor(ctx, ref, market)...)

	for i := range tracks {
		tracks[i].Language = job.language
		tracks[i].HarvestedBy = job.artist
	}
	return tracks
}

func (h *harvester) resolveArtist(ctx context.Context, name, market string) (domain.ArtistRef, error) {
	key := name + "|" + market
	if ref, ok := h.artistIDs.Get(key); ok {
		return ref, nil
	}
	ref, err := h.catalog.SearchArtist(ctx, name, market)
	if err != nil {
		return domain.ArtistRef{}, err
	}
	h.artistIDs.Set(key, ref)
	return ref, nil
}

func (h *harvester) topTracksFor(ctx context.Context, ref domain.ArtistRef, market string) []domain.Track {
	key := ref.ID + "|" + market
	tracks, ok := h.topTracks.Get(key)
	if !ok {
		var err error
		tracks, err = h.catalog.TopTracks(ctx, ref.ID, market)
		if err != nil {
			h.logger.Warn().Err(err).Str("artist", ref.Name).Msg("top tracks failed")
			return nil
		}
		h.topTracks.Set(key, tracks)
	}

	if len(tracks) > h.cfg.TopTracksPerArtist {
		tracks = tracks[:h.cfg.TopTracksPerArtist]
	}
	out := make([]domain.Track, len(tracks))
	copy(out, tracks)
	for i := range out {
		out[i].SourceType = domain.SourceTop
	}
	return out
}

// recentTracksFor walks the artist's releases inside the recency window and
// pulls a couple of tracks from each.
func (h *harvester) recentTracksFor(ctx context.Context, ref domain.ArtistRef, market string) []domain.Track {
	since := h.now().AddDate(0, 0, -h.cfg.RecentWindowDays)

	key := ref.ID + "|" + market
	albums, ok := h.albums.Get(key)
	if !ok {
		var err error
		albums, err = h.catalog.RecentAlbums(ctx, ref.ID, market, since)
		if err != nil {
			h.logger.Warn().Err(err).Str("artist", ref.Name).Msg("recent albums failed")
			return nil
		}
		h.albums.Set(key, albums)
	}

	if len(albums) > h.cfg.AlbumsPerArtist {
		albums = albums[:h.cfg.AlbumsPerArtist]
	}

	var ids []string
	for _, album := range albums {
		trackIDs, err := h.catalog.AlbumTrackIDs(ctx, album.ID, h.cfg.TracksPerAlbum)
		if err != nil {
			h.logger.Warn().Err(err).Str("album", album.Name).Msg("album tracks failed")
			continue
		}
		ids = append(ids, trackIDs...)
		if len(ids) >= h.cfg.RecentTracksPerArtist {
			break
		}
	}
	if len(ids) > h.cfg.RecentTracksPerArtist {
		ids = ids[:h.cfg.RecentTracksPerArtist]
	}
	if len(ids) == 0 {
		return nil
	}

	tracks, err := h.catalog.TracksByID(ctx, ids)
	if err != nil {
		h.logger.Warn().Err(err).Str("artist", ref.Name).Msg("recent track details failed")
		return nil
	}
	for i := range tracks {
		tracks[i].SourceType = domain.SourceRecent
	}
	return tracks
}

// attachFeatures fetches measured features in batches. If the endpoint is
// unusable the run degrades: every track gets estimated features and the
// scorer relaxes its threshold. Individual gaps in a healthy response are
// estimated one by one without degrading the run.
func (h *harvester) attachFeatures(ctx context.Context, tracks []domain.Track, mc MoodConfig) ([]domain.Track, bool) {
	if len(tracks) == 0 {
		return tracks, false
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	measured := make(map[string]domain.AudioFeatures, len(ids))
	degraded := false
	for start := 0; start < len(ids); start += featureBatchSize {
		end := start + featureBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := h.catalog.AudioFeatures(ctx, ids[start:end])
		if err != nil {
			if !errors.Is(err, ports.ErrFeaturesUnavailable) {
				h.logger.Warn().Err(err).Msg("audio features batch failed")
			}
			degraded = true
			break
		}
		for id, f := range batch {
			measured[id] = f
		}
	}

	for i := range tracks {
		if !degraded {
			if f, ok := measured[tracks[i].ID]; ok {
				f.Clamp()
				tracks[i].Features = f
				tracks[i].FeatureSource = domain.FeatureMeasured
				continue
			}
			tracks[i].EstimateReason = "missing_from_batch"
		} else {
			tracks[i].EstimateReason = "features_unavailable"
		}
		tracks[i].Features = estimateFeatures(mc.Baseline, tracks[i].HarvestedBy, tracks[i].Language, tracks[i])
		tracks[i].FeatureSource = domain.FeatureEstimated
	}
	return tracks, degraded
}
