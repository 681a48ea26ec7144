// Package sqlite implements the feedback store port: sessions, explicit
// like/dislike signals, reranked orders and the learning aggregates built on
// top of them.
package sqlite

import (
	"context"
	"crypto/md5"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // driver
	"github.com/rs/zerolog"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
	"github.com/storybeats-labs/storybeats/internal/core/ports"
)

// Adapter is the SQLite-backed feedback store.
type Adapter struct {
	db     *sql.DB
	logger zerolog.Logger
}

var _ ports.FeedbackStore = (*Adapter)(nil)

// NewAdapter opens (or creates) the database and runs the schema migration.
func NewAdapter(storagePath string, logger zerolog.Logger) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("feedback store: open %s: %w", storagePath, err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY races
	// between request handlers and background pool jobs.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("feedback store: ping: %w", err)
	}

	adapter := &Adapter{db: db, logger: logger.With().Str("component", "sqlite").Logger()}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("feedback store: migration: %w", err)
	}

	adapter.logger.Info().Str("path", storagePath).Msg("💾 feedback store ready")
	return adapter, nil
}

// Close releases the underlying connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// RecordSession upserts one photo-upload session. The image itself is never
// stored, only an md5 hash for duplicate detection.
func (a *Adapter) RecordSession(ctx context.Context, sessionID string, image []byte, profile domain.MoodProfile) error {
	analysis, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("feedback store: marshal analysis: %w", err)
	}

	imageHash := fmt.Sprintf("%x", md5.Sum(image))
	if _, err := a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (session_id, image_hash, analysis)
		VALUES (?, ?, ?)
	`, sessionID, imageHash, string(analysis)); err != nil {
		return fmt.Errorf("feedback store: record session: %w", err)
	}
	return nil
}

// RecordFeedback appends one like/dislike row. Analysis and features columns
// stay NULL when the session had already expired by the time feedback came in.
func (a *Adapter) RecordFeedback(ctx context.Context, fb domain.Feedback) error {
	var analysisJSON any
	if fb.Analysis.Mood != "" {
		b, err := json.Marshal(fb.Analysis)
		if err != nil {
			return fmt.Errorf("feedback store: marshal analysis: %w", err)
		}
		analysisJSON = string(b)
	}

	var featuresJSON any
	if fb.Features != (domain.AudioFeatures{}) {
		b, err := json.Marshal(fb.Features)
		if err != nil {
			return fmt.Errorf("feedback store: marshal features: %w", err)
		}
		featuresJSON = string(b)
	}

	if _, err := a.db.ExecContext(ctx, `
		INSERT INTO feedback (session_id, song_id, song_name, artist_name, feedback, image_analysis, audio_features)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, fb.SessionID, fb.SongID, fb.SongName, fb.ArtistName, fb.Value, analysisJSON, featuresJSON); err != nil {
		return fmt.Errorf("feedback store: record feedback: %w", err)
	}
	return nil
}

// SaveRerankedOrder upserts the post-rerank and pre-rerank orders for one
// session so ranking changes can be audited later.
func (a *Adapter) SaveRerankedOrder(ctx context.Context, sessionID string, reranked, original []domain.ScoredTrack) error {
	rerankedJSON, err := json.Marshal(reranked)
	if err != nil {
		return fmt.Errorf("feedback store: marshal reranked: %w", err)
	}
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return fmt.Errorf("feedback store: marshal original: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reranked_results (session_id, reranked_songs, original_songs)
		VALUES (?, ?, ?)
	`, sessionID, string(rerankedJSON), string(originalJSON)); err != nil {
		return fmt.Errorf("feedback store: save reranked order: %w", err)
	}

	a.logger.Debug().Str("session", sessionID).Int("tracks", len(reranked)).Msg("💾 reranked order stored")
	return nil
}

// RerankedOrder loads the stored orders for a session, or domain.ErrNotFound.
func (a *Adapter) RerankedOrder(ctx context.Context, sessionID string) (reranked, original []domain.ScoredTrack, err error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT reranked_songs, original_songs FROM reranked_results WHERE session_id = ?
	`, sessionID)

	var rerankedJSON, originalJSON string
	if err := row.Scan(&rerankedJSON, &originalJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("feedback store: load reranked order: %w", err)
	}

	if err := json.Unmarshal([]byte(rerankedJSON), &reranked); err != nil {
		return nil, nil, fmt.Errorf("feedback store: decode reranked: %w", err)
	}
	if err := json.Unmarshal([]byte(originalJSON), &original); err != nil {
		return nil, nil, fmt.Errorf("feedback store: decode original: %w", err)
	}
	return reranked, original, nil
}

func (a *Adapter) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		image_hash TEXT,
		analysis JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		song_id TEXT,
		song_name TEXT,
		artist_name TEXT,
		feedback INTEGER,
		image_analysis JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id)
	);

	CREATE TABLE IF NOT EXISTS reranked_results (
		session_id TEXT PRIMARY KEY,
		reranked_songs JSON,
		original_songs JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id)
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_session ON feedback(session_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_song ON feedback(song_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_hash ON sessions(image_hash);
	`
	if _, err := a.db.Exec(schema); err != nil {
		return err
	}

	// Columns added after the first release; existing databases pick them up
	// here, fresh ones report a duplicate which is fine.
	alters := []string{
		"ALTER TABLE feedback ADD COLUMN audio_features JSON",
		"ALTER TABLE feedback ADD COLUMN weight REAL DEFAULT 1.0",
		"ALTER TABLE feedback ADD COLUMN signal_type TEXT DEFAULT 'explicit'",
	}
	for _, stmt := range alters {
		if _, err := a.db.Exec(stmt); err != nil && !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
