package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

// Features the preference learner tracks. Instrumentalness is deliberately
// absent: its signal was too noisy to learn from.
var learnedFeatures = []string{"energy", "valence", "danceability", "acousticness", "tempo"}

// minLikedForLearning is how many liked rows with features a mood needs before
// preference ranges count as reliable.
const minLikedForLearning = 3

// LikedArtists returns artists with at least minLikes likes, best-liked first.
// A non-empty mood restricts the count to feedback given under that mood.
func (a *Adapter) LikedArtists(ctx context.Context, mood string, minLikes int) ([]domain.ArtistFeedback, error) {
	return a.artistAggregate(ctx, 1, mood, minLikes)
}

// DislikedArtists is the dislike-side counterpart of LikedArtists.
func (a *Adapter) DislikedArtists(ctx context.Context, mood string, minDislikes int) ([]domain.ArtistFeedback, error) {
	return a.artistAggregate(ctx, -1, mood, minDislikes)
}

func (a *Adapter) artistAggregate(ctx context.Context, value int, mood string, minCount int) ([]domain.ArtistFeedback, error) {
	query := `
		SELECT artist_name, COUNT(*) AS cnt
		FROM feedback
		WHERE feedback = ?`
	args := []any{value}

	if mood != "" {
		query += ` AND json_extract(image_analysis, '$.mood') = ?`
		args = append(args, mood)
	}

	query += `
		GROUP BY artist_name
		HAVING cnt >= ?
		ORDER BY cnt DESC`
	args = append(args, minCount)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("feedback store: artist aggregate: %w", err)
	}
	defer rows.Close()

	var out []domain.ArtistFeedback
	for rows.Next() {
		var fb domain.ArtistFeedback
		if err := rows.Scan(&fb.Artist, &fb.Count); err != nil {
			return nil, fmt.Errorf("feedback store: scan artist aggregate: %w", err)
		}
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feedback store: iterate artist aggregate: %w", err)
	}
	return out, nil
}

// PreferredFeatureRanges learns per-feature preference bands from liked rows:
// a weighted-mean target with a band of ± one standard deviation, floored at
// 0.15 (20 BPM for tempo) and clamped to the feature's valid range.
func (a *Adapter) PreferredFeatureRanges(ctx context.Context, mood string) (domain.FeaturePreferences, error) {
	query := `
		SELECT audio_features, feedback, weight
		FROM feedback
		WHERE audio_features IS NOT NULL`
	args := []any{}

	if mood != "" {
		query += ` AND json_extract(image_analysis, '$.mood') = ?`
		args = append(args, mood)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.FeaturePreferences{}, fmt.Errorf("feedback store: feature rows: %w", err)
	}
	defer rows.Close()

	type likedSample struct {
		features map[string]float64
		weight   float64
	}
	var liked []likedSample
	dislikedCount := 0

	for rows.Next() {
		var featuresJSON string
		var value int
		var weight sql.NullFloat64
		if err := rows.Scan(&featuresJSON, &value, &weight); err != nil {
			return domain.FeaturePreferences{}, fmt.Errorf("feedback store: scan feature row: %w", err)
		}

		var features map[string]float64
		if err := json.Unmarshal([]byte(featuresJSON), &features); err != nil {
			// A corrupt row must not poison the whole aggregate.
			continue
		}

		w := 1.0
		if weight.Valid {
			w = weight.Float64
		}
		switch {
		case value > 0:
			liked = append(liked, likedSample{features: features, weight: w})
		case value < 0:
			dislikedCount++
		}
	}
	if err := rows.Err(); err != nil {
		return domain.FeaturePreferences{}, fmt.Errorf("feedback store: iterate feature rows: %w", err)
	}

	moodLabel := mood
	if moodLabel == "" {
		moodLabel = "all"
	}
	prefs := domain.FeaturePreferences{
		LikedCount:    len(liked),
		DislikedCount: dislikedCount,
		Mood:          moodLabel,
	}
	if len(liked) < minLikedForLearning {
		return prefs, nil
	}

	prefs.HasEnoughData = true
	prefs.Ranges = make(map[string]domain.FeatureRange, len(learnedFeatures))

	for _, name := range learnedFeatures {
		var values, weights []float64
		for _, s := range liked {
			if v, ok := s.features[name]; ok {
				values = append(values, v)
				weights = append(weights, s.weight)
			}
		}
		if len(values) == 0 {
			continue
		}

		// 1. Weighted mean as the target.
		weightedSum, totalWeight := 0.0, 0.0
		for i, v := range values {
			weightedSum += v * weights[i]
			totalWeight += weights[i]
		}
		target := mean(values)
		if totalWeight > 0 {
			target = weightedSum / totalWeight
		}

		// 2. Band of ± one (unweighted) standard deviation, floored.
		delta := max(stddev(values), 0.15)
		lo, hi := 0.0, 1.0
		if name == "tempo" {
			delta = max(stddev(values), 20)
			lo, hi = 60, 180
		}

		prefs.Ranges[name] = domain.FeatureRange{
			Target:      round3(target),
			Min:         round3(max(lo, target-delta)),
			Max:         round3(min(hi, target+delta)),
			SampleCount: len(values),
		}
	}

	return prefs, nil
}

// Stats reports overall like/dislike totals.
func (a *Adapter) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN feedback = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN feedback = -1 THEN 1 ELSE 0 END), 0),
			COUNT(*)
		FROM feedback
	`)

	var stats domain.FeedbackStats
	if err := row.Scan(&stats.Likes, &stats.Dislikes, &stats.Total); err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("feedback store: stats: %w", err)
	}
	if stats.Total > 0 {
		stats.LikeRate = float64(stats.Likes) / float64(stats.Total)
	}
	return stats, nil
}

// TopLikedSongs returns songs whose likes outweigh dislikes, most liked first.
func (a *Adapter) TopLikedSongs(ctx context.Context, limit int) ([]domain.LikedSong, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT
			song_id,
			song_name,
			artist_name,
			SUM(CASE WHEN feedback = 1 THEN 1 ELSE 0 END) AS likes,
			SUM(CASE WHEN feedback = -1 THEN 1 ELSE 0 END) AS dislikes,
			COUNT(*) AS total_feedback
		FROM feedback
		GROUP BY song_id
		HAVING likes > dislikes
		ORDER BY likes DESC, total_feedback DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("feedback store: top liked songs: %w", err)
	}
	defer rows.Close()

	var out []domain.LikedSong
	for rows.Next() {
		var song domain.LikedSong
		var dislikes int
		if err := rows.Scan(&song.SongID, &song.SongName, &song.Artist, &song.Likes, &dislikes, &song.Total); err != nil {
			return nil, fmt.Errorf("feedback store: scan top liked song: %w", err)
		}
		out = append(out, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feedback store: iterate top liked songs: %w", err)
	}
	return out, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	return math.Sqrt(variance / float64(len(values)))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
