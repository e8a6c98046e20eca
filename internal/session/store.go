// Package session persists per-user dialogue session attributes.
//
// Persistence failures are deliberately non-fatal to a conversational turn:
// a user should still get a reply even if continuity is lost for one turn.
// Load returns an empty mapping on any backing-store error, and Save is
// best-effort. Concurrent turns from the same user are last-write-wins; the
// messaging provider serializes per sender in practice.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type dbtx interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store reads and writes session attributes keyed by user identity.
type Store struct {
	db     dbtx
	logger *slog.Logger
}

// NewStore creates a session store.
func NewStore(log *slog.Logger, db dbtx) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		db:     db,
		logger: log.With(slog.String("service", "session")),
	}
}

// Load returns the session attributes for userID. Absence of a session and
// backing-store errors both yield an empty mapping, never an error.
func (s *Store) Load(ctx context.Context, userID string) map[string]string {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT attributes FROM dialogue_sessions WHERE id = $1`,
		userID,
	).Scan(&raw)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("session load failed, continuing with empty session",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return map[string]string{}
	}

	attrs := map[string]string{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		s.logger.Warn("session attributes malformed, continuing with empty session",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return map[string]string{}
	}
	return attrs
}

// Save upserts the session attributes for userID. Failures are logged and
// swallowed: a session-write failure must not fail the turn.
func (s *Store) Save(ctx context.Context, userID string, attrs map[string]string) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	payload, err := json.Marshal(attrs)
	if err != nil {
		s.logger.Error("session attributes not serializable",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO dialogue_sessions (id, attributes, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET attributes = EXCLUDED.attributes, updated_at = now()`,
		userID, payload,
	)
	if err != nil {
		s.logger.Warn("session save failed, continuity may be lost for this turn",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// DeleteStale removes sessions idle for longer than ttl and reports how many
// rows were pruned.
func (s *Store) DeleteStale(ctx context.Context, ttl time.Duration) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM dialogue_sessions WHERE updated_at < $1`,
		time.Now().Add(-ttl),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
