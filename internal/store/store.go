// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"strings"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

// MaxEntries caps each per-device collection. Appending beyond the cap evicts
// the oldest entries by insertion order.
const MaxEntries = 50

// Repository defines the interface for persisting research history and chat
// sessions. All operations are scoped by the anonymous device user ID.
type Repository interface {
	// AppendHistory inserts a research history entry at the front of the
	// user's history and truncates the collection to MaxEntries.
	AppendHistory(ctx context.Context, userID string, entry domain.CompanyHistory) error

	// ListHistory returns the user's history newest-first. Entries that fail
	// to deserialize are skipped rather than surfaced as errors.
	ListHistory(ctx context.Context, userID string) ([]domain.CompanyHistory, error)

	// ClearHistory deletes the user's entire research history.
	ClearHistory(ctx context.Context, userID string) error

	// UpsertSession replaces the session with a matching ID in place, or
	// inserts it at the front. UpdatedAt is stamped and the title derived
	// before writing. The collection is truncated to MaxEntries.
	UpsertSession(ctx context.Context, userID string, session *domain.ChatSession) error

	// ListSessions returns the user's sessions newest-first by insertion.
	ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error)

	// GetSession retrieves one session by ID, or nil if absent.
	GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error)

	// DeleteSession removes a session. Absent sessions are not an error.
	DeleteSession(ctx context.Context, userID, sessionID string) error

	// Ping verifies storage connectivity.
	Ping(ctx context.Context) error

	// Close closes the underlying storage.
	Close() error
}

// DedupeHistory collapses history entries to at most one per company name,
// case-insensitively, keeping the most recent timestamp per name. The store
// itself writes entries as-is; deduplication happens at read time.
func DedupeHistory(entries []domain.CompanyHistory) []domain.CompanyHistory {
	seen := make(map[string]int)
	out := make([]domain.CompanyHistory, 0, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(entry.CompanyName))
		if idx, ok := seen[key]; ok {
			if entry.Timestamp.After(out[idx].Timestamp) {
				out[idx] = entry
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, entry)
	}
	return out
}
