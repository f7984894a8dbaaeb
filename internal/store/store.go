// Package store persists review sessions and activity events in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // Register the postgres driver
)

// Store handles database operations for sessions and the activity log.
type Store struct {
	db *sql.DB
}

// Session is one reviewer session, from login to logout.
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// ActivityEvent is one logged reviewer action. Payload carries arbitrary
// client-supplied JSON describing the event.
type ActivityEvent struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"session_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	UserName  string          `json:"user_name"`
	UserEmail string          `json:"user_email"`
	CreatedAt time.Time       `json:"created_at"`
}

// Open connects to PostgreSQL and verifies the connection.
func Open(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	start_time TIMESTAMPTZ NOT NULL,
	end_time   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS activity_events (
	id         BIGSERIAL PRIMARY KEY,
	session_id UUID REFERENCES sessions(id),
	event_type TEXT NOT NULL,
	payload    JSONB,
	user_name  TEXT NOT NULL DEFAULT '',
	user_email TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS activity_events_session_idx
	ON activity_events (session_id, created_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateSession starts a new session and returns it with a fresh UUID and
// server-side start time.
func (s *Store) CreateSession(ctx context.Context, name, email string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		StartTime: time.Now().UTC(),
	}

	const query = `
		INSERT INTO sessions (id, name, email, start_time)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, sess.ID, sess.Name, sess.Email, sess.StartTime); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// EndSession stamps a session's end time. Ending an unknown or already
// ended session is not an error; the update simply matches no rows.
func (s *Store) EndSession(ctx context.Context, sessionID string) error {
	const query = `
		UPDATE sessions SET end_time = $2
		WHERE id = $1 AND end_time IS NULL`
	if _, err := s.db.ExecContext(ctx, query, sessionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// LogActivity records one activity event. A zero CreatedAt is replaced with
// the server clock.
func (s *Store) LogActivity(ctx context.Context, ev *ActivityEvent) error {
	if ev.EventType == "" {
		return fmt.Errorf("event type is required")
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	payload := ev.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	sessionID := sql.NullString{String: ev.SessionID, Valid: ev.SessionID != ""}

	const query = `
		INSERT INTO activity_events (session_id, event_type, payload, user_name, user_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		sessionID, ev.EventType, []byte(payload), ev.UserName, ev.UserEmail, ev.CreatedAt,
	).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// ListActivity returns the most recent activity events, newest first.
func (s *Store) ListActivity(ctx context.Context, limit int) ([]ActivityEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	const query = `
		SELECT id, COALESCE(session_id::text, ''), event_type, COALESCE(payload, 'null'::jsonb),
		       user_name, user_email, created_at
		FROM activity_events
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	events := []ActivityEvent{}
	for rows.Next() {
		var ev ActivityEvent
		var payload []byte
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.EventType, &payload,
			&ev.UserName, &ev.UserEmail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		ev.Payload = json.RawMessage(payload)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity rows: %w", err)
	}
	return events, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
