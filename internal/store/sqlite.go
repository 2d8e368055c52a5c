package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite. Both collections are stored
// as JSON payload rows so date fields round-trip at RFC3339Nano precision
// inside the payload; the seq column preserves insertion order.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS company_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		entry_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_user ON company_history(user_id, seq);

	CREATE TABLE IF NOT EXISTS chat_sessions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(user_id, session_id)
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON chat_sessions(user_id, seq);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// execRetry runs a write statement, retrying a couple of times on SQLite
// concurrency errors that slip past the busy timeout.
func (s *SQLiteStore) execRetry(ctx context.Context, query string, args ...interface{}) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		_, err = s.db.ExecContext(ctx, query, args...)
		if err == nil || !shared.IsSQLiteConflictError(err) {
			return err
		}
		slog.Warn("retrying write after sqlite conflict", "attempt", attempt+1, "error", err)
		select {
		case <-time.After(time.Duration(50*(attempt+1)) * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// AppendHistory inserts a history entry and evicts the oldest beyond the cap.
func (s *SQLiteStore) AppendHistory(ctx context.Context, userID string, entry domain.CompanyHistory) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	query := `INSERT INTO company_history (user_id, entry_id, payload, created_at) VALUES (?, ?, ?, ?)`
	if err := s.execRetry(ctx, query, userID, entry.ID, string(payload), entry.Timestamp.Unix()); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	return s.truncate(ctx, "company_history", userID)
}

// ListHistory returns history entries newest-first, skipping corrupt rows.
func (s *SQLiteStore) ListHistory(ctx context.Context, userID string) ([]domain.CompanyHistory, error) {
	query := `SELECT payload FROM company_history WHERE user_id = ? ORDER BY seq DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close history rows", "error", closeErr)
		}
	}()

	var entries []domain.CompanyHistory
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var entry domain.CompanyHistory
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			slog.Warn("skipping corrupt history entry", "user_id", userID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}

// ClearHistory deletes the user's entire research history.
func (s *SQLiteStore) ClearHistory(ctx context.Context, userID string) error {
	if err := s.execRetry(ctx, `DELETE FROM company_history WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// UpsertSession replaces a session in place or inserts it at the front.
func (s *SQLiteStore) UpsertSession(ctx context.Context, userID string, session *domain.ChatSession) error {
	session.UpdatedAt = time.Now()
	session.DeriveTitle()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// ON CONFLICT keeps the original seq, so replacing a session does not
	// move it to the front of the list.
	query := `
	INSERT INTO chat_sessions (user_id, session_id, payload, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id, session_id) DO UPDATE SET
		payload = excluded.payload,
		updated_at = excluded.updated_at`

	if err := s.execRetry(ctx, query,
		userID, session.ID, string(payload),
		session.CreatedAt.Unix(), session.UpdatedAt.Unix(),
	); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return s.truncate(ctx, "chat_sessions", userID)
}

// ListSessions returns the user's sessions newest-first by insertion.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error) {
	query := `SELECT payload FROM chat_sessions WHERE user_id = ? ORDER BY seq DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close session rows", "error", closeErr)
		}
	}()

	var sessions []*domain.ChatSession
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		var session domain.ChatSession
		if err := json.Unmarshal([]byte(payload), &session); err != nil {
			slog.Warn("skipping corrupt session", "user_id", userID, "error", err)
			continue
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// GetSession retrieves one session by ID, or nil if absent.
func (s *SQLiteStore) GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	query := `SELECT payload FROM chat_sessions WHERE user_id = ? AND session_id = ?`
	row := s.db.QueryRowContext(ctx, query, userID, sessionID)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	var session domain.ChatSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		slog.Warn("corrupt session payload", "user_id", userID, "session_id", sessionID, "error", err)
		return nil, nil
	}
	return &session, nil
}

// DeleteSession removes a session. Absent sessions are not an error.
func (s *SQLiteStore) DeleteSession(ctx context.Context, userID, sessionID string) error {
	query := `DELETE FROM chat_sessions WHERE user_id = ? AND session_id = ?`
	if err := s.execRetry(ctx, query, userID, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// truncate evicts the oldest rows beyond MaxEntries for one user.
func (s *SQLiteStore) truncate(ctx context.Context, table, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE user_id = ? AND seq NOT IN (
			SELECT seq FROM %s WHERE user_id = ? ORDER BY seq DESC LIMIT ?
		)`, table, table)
	if err := s.execRetry(ctx, query, userID, userID, MaxEntries); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
