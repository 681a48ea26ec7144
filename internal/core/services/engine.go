// Package services contains the recommendation engine: mood normalization,
// candidate harvesting, vibe scoring, diversity selection and pagination.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
	"github.com/storybeats-labs/storybeats/internal/core/ports"
	"github.com/storybeats-labs/storybeats/internal/metrics"
	"github.com/storybeats-labs/storybeats/internal/worker"
)

// ErrSessionNotFound indicates a load-more call referenced an unknown or
// expired session; callers fall back to a fresh pipeline run.
var ErrSessionNotFound = errors.New("service: session not found")

// Deps bundles the engine's collaborators. Catalog is required; the rest may
// be nil and their features quietly switch off.
type Deps struct {
	Catalog  ports.CatalogProvider
	Store    ports.FeedbackStore
	Analyzer ports.ImageAnalyzer
	Reranker ports.Reranker
	Pool     *worker.Pool
	Clock    func() time.Time
}

// Engine turns a mood profile into ranked, diversified, paginated song
// recommendations.
type Engine struct {
	cfg      *Config
	logger   zerolog.Logger
	catalog  ports.CatalogProvider
	store    ports.FeedbackStore
	analyzer ports.ImageAnalyzer
	reranker ports.Reranker
	pool     *worker.Pool
	now      func() time.Time

	harvester *harvester
	sessions  *sessionCache
}

// NewEngine validates the configuration and wires the pipeline. A nil cfg
// uses DefaultConfig.
func NewEngine(cfg *Config, logger zerolog.Logger, deps Deps) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("service: invalid config: %w", err)
	}
	if deps.Catalog == nil {
		return nil, errors.New("service: catalog provider is required")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	log := logger.With().Str("component", "engine").Logger()
	return &Engine{
		cfg:       cfg,
		logger:    log,
		catalog:   deps.Catalog,
		store:     deps.Store,
		analyzer:  deps.Analyzer,
		reranker:  deps.Reranker,
		pool:      deps.Pool,
		now:       now,
		harvester: newHarvester(deps.Catalog, cfg, log, now),
		sessions:  newSessionCache(cfg.SessionTTL, now),
	}, nil
}

// AnalyzeAndRecommend runs the full photo-to-songs flow: vision analysis,
// the ranking pipeline, session persistence and a detached rerank.
func (e *Engine) AnalyzeAndRecommend(ctx context.Context, image []byte) (domain.RecommendationBatch, error) {
	// 1. Vision analysis. The analyzer degrades internally; a hard failure
	// here still leaves us the default profile.
	profile := domain.DefaultMoodProfile()
	if e.analyzer != nil {
		p, err := e.analyzer.AnalyzeImage(ctx, image)
		if err != nil {
			e.logger.Warn().Err(err).Msg("image analysis failed, using default profile")
		} else {
			profile = p
		}
	}

	// 2. Ranking pipeline.
	batch, err := e.recommend(ctx, profile, nil)
	if err != nil {
		return domain.RecommendationBatch{}, err
	}

	// 3. Persist the session for feedback attribution, off the hot path.
	if e.store != nil {
		e.submitOrRun("persist-session-"+batch.SessionID, func(jobCtx context.Context) error {
			if err := e.store.RecordSession(jobCtx, batch.SessionID, image, batch.Analysis); err != nil {
				return fmt.Errorf("service: record session: %w", err)
			}
			return nil
		})
	}

	// 4. Detached rerank. "Load more" before it lands serves the original order.
	if e.reranker != nil && e.pool != nil && len(batch.Superset) > 0 {
		e.submitRerank(batch.SessionID, image, batch.Analysis, batch.Superset)
	}

	return batch, nil
}

// Recommend runs the ranking pipeline for an already-analyzed profile.
func (e *Engine) Recommend(ctx context.Context, profile domain.MoodProfile) (domain.RecommendationBatch, error) {
	return e.recommend(ctx, profile, nil)
}

// RecommendExcluding re-runs the pipeline minus already-served tracks. It is
// the fallback for load-more calls whose session expired.
func (e *Engine) RecommendExcluding(ctx context.Context, profile domain.MoodProfile, excludeIDs []string) (domain.RecommendationBatch, error) {
	exclude := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		exclude[id] = true
	}
	return e.recommend(ctx, profile, exclude)
}

func (e *Engine) recommend(ctx context.Context, profile domain.MoodProfile, exclude map[string]bool) (domain.RecommendationBatch, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationBatch{}, fmt.Errorf("service: recommend: %w", err)
	}
	metrics.RecommendationsTotal.Inc()
	profile.Clamp()

	// 1. Canonical mood.
	mood, rule := normalizeMood(e.cfg, profile.Mood)
	if rule != moodRuleExact {
		e.logger.Info().Str("raw", profile.Mood).Str("mood", mood).Str("rule", rule).Msg("mood normalized")
	}
	profile.Mood = mood
	moodCfg := e.cfg.Moods[mood]

	// 2. Harvest candidates concurrently.
	pool, degraded := e.harvester.harvest(ctx, moodCfg)
	metrics.CandidatesHarvested.Add(float64(len(pool)))
	if degraded {
		metrics.DegradedRuns.Inc()
	}
	if len(exclude) > 0 {
		kept := pool[:0]
		for _, t := range pool {
			if !exclude[t.ID] {
				kept = append(kept, t)
			}
		}
		pool = kept
	}

	// 3. Feedback aggregates, one store round-trip per run.
	boost := e.loadBoost(ctx, mood)

	// 4. Score, filter, sort.
	scored := scoreAndFilter(e.cfg, profile, pool, boost, e.now())

	// 5. Diversity selection.
	englishTarget, hindiTarget := languageMix(e.cfg, profile)
	superset, counts := selectDiverse(e.cfg, scored, englishTarget, hindiTarget)

	// 6. Cache the superset; the first batch counts as already served.
	first := superset
	if len(first) > e.cfg.FirstBatchSize {
		first = superset[:e.cfg.FirstBatchSize]
	}
	sessionID := uuid.NewString()
	e.sessions.put(sessionID, profile, superset, len(first))
	metrics.ActiveSessions.Set(float64(e.sessions.size()))

	e.logger.Info().
		Str("session", sessionID).
		Str("mood", mood).
		Int("candidates", len(pool)).
		Int("scored", len(scored)).
		Int("selected", len(superset)).
		Bool("degraded", degraded).
		Msg("🎶 recommendations ready")

	return domain.RecommendationBatch{
		SessionID:      sessionID,
		Analysis:       profile,
		FirstBatch:     first,
		Superset:       superset,
		LanguageCounts: counts,
		Degraded:       degraded,
	}, nil
}

// LoadMore serves the next page of an existing session and reports whether
// unserved tracks remain. An exhausted session returns an empty page, not an
// error.
func (e *Engine) LoadMore(ctx context.Context, sessionID string) ([]domain.ScoredTrack, bool, error) {
	page, remaining, ok := e.sessions.next(sessionID, e.cfg.PageSize)
	if !ok {
		metrics.SessionMisses.Inc()
		return nil, false, ErrSessionNotFound
	}
	metrics.SessionHits.Inc()
	return page, remaining > 0, nil
}

// RecordFeedback validates and stores one like/dislike. While the session is
// still cached the analysis and the song's features ride along, which is what
// makes mood-scoped artist and feature learning possible.
func (e *Engine) RecordFeedback(ctx context.Context, fb domain.Feedback) error {
	if e.store == nil {
		return errors.New("service: feedback store not configured")
	}
	if fb.Value != 1 && fb.Value != -1 {
		return fmt.Errorf("service: feedback value must be 1 or -1, got %d", fb.Value)
	}
	if fb.SessionID == "" || fb.SongID == "" {
		return errors.New("service: session_id and song_id are required")
	}

	if profile, ok := e.sessions.profileFor(fb.SessionID); ok {
		fb.Analysis = profile
	}
	if features, ok := e.sessions.trackFeatures(fb.SessionID, fb.SongID); ok {
		fb.Features = features
	}

	if err := e.store.RecordFeedback(ctx, fb); err != nil {
		return fmt.Errorf("service: record feedback: %w", err)
	}
	return nil
}

// FeedbackStats reports overall feedback totals and the best-liked songs.
func (e *Engine) FeedbackStats(ctx context.Context) (domain.FeedbackStats, []domain.LikedSong, error) {
	if e.store == nil {
		return domain.FeedbackStats{}, nil, errors.New("service: feedback store not configured")
	}
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return domain.FeedbackStats{}, nil, fmt.Errorf("service: feedback stats: %w", err)
	}
	top, err := e.store.TopLikedSongs(ctx, 10)
	if err != nil {
		e.logger.Warn().Err(err).Msg("top liked songs query failed")
		top = nil
	}
	return stats, top, nil
}

// StartSweeper purges expired sessions and cache entries until ctx ends.
func (e *Engine) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := e.sessions.sweepExpired(); n > 0 {
					e.logger.Debug().Int("removed", n).Msg("session sweep")
				}
				e.harvester.topTracks.EvictExpired()
				e.harvester.albums.EvictExpired()
				metrics.ActiveSessions.Set(float64(e.sessions.size()))
			}
		}
	}()
}

func (e *Engine) loadBoost(ctx context.Context, mood string) *boostContext {
	if e.store == nil {
		return neutralBoost(e.cfg)
	}

	liked, err := e.store.LikedArtists(ctx, mood, e.cfg.MinLikes)
	if err != nil {
		e.logger.Warn().Err(err).Msg("liked artists query failed")
		liked = nil
	}
	disliked, err := e.store.DislikedArtists(ctx, mood, e.cfg.MinLikes)
	if err != nil {
		e.logger.Warn().Err(err).Msg("disliked artists query failed")
		disliked = nil
	}
	prefs, err := e.store.PreferredFeatureRanges(ctx, mood)
	if err != nil {
		e.logger.Warn().Err(err).Msg("feature preferences query failed")
		prefs = domain.FeaturePreferences{}
	}
	return newBoostContext(e.cfg, liked, disliked, prefs)
}

func (e *Engine) submitRerank(sessionID string, image []byte, profile domain.MoodProfile, superset []domain.ScoredTrack) {
	original := make([]domain.ScoredTrack, len(superset))
	copy(original, superset)

	e.pool.Submit(worker.Job{
		Name: "rerank-" + sessionID,
		Run: func(jobCtx context.Context) error {
			reranked, err := e.reranker.Rerank(jobCtx, image, profile, original)
			if err != nil {
				// The pre-rerank order stands.
				metrics.RerankOutcomes.WithLabelValues("failed").Inc()
				return fmt.Errorf("service: rerank: %w", err)
			}
			if !e.sessions.replaceSuperset(sessionID, reranked) {
				metrics.RerankOutcomes.WithLabelValues("expired").Inc()
				return nil
			}
			metrics.RerankOutcomes.WithLabelValues("applied").Inc()
			if e.store != nil {
				if err := e.store.SaveRerankedOrder(jobCtx, sessionID, reranked, original); err != nil {
					e.logger.Warn().Err(err).Str("session", sessionID).Msg("persisting reranked order failed")
				}
			}
			return nil
		},
	})
}

// submitOrRun pushes work onto the pool when one is configured and otherwise
// runs it inline so nothing is lost.
func (e *Engine) submitOrRun(name string, run func(ctx context.Context) error) {
	if e.pool != nil {
		e.pool.Submit(worker.Job{Name: name, Run: run})
		return
	}
	if err := run(context.Background()); err != nil {
		e.logger.Warn().Err(err).Str("job", name).Msg("inline job failed")
	}
}
