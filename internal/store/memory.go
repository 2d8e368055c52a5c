package store

import (
	"context"
	"sync"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

// MemoryStore implements Repository with mutex-guarded maps. Used by tests
// and as a no-persistence fallback when no database path is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	history  map[string][]domain.CompanyHistory
	sessions map[string][]*domain.ChatSession
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		history:  make(map[string][]domain.CompanyHistory),
		sessions: make(map[string][]*domain.ChatSession),
	}
}

func (s *MemoryStore) AppendHistory(_ context.Context, userID string, entry domain.CompanyHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append([]domain.CompanyHistory{entry}, s.history[userID]...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.history[userID] = entries
	return nil
}

func (s *MemoryStore) ListHistory(_ context.Context, userID string) ([]domain.CompanyHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.CompanyHistory, len(s.history[userID]))
	copy(entries, s.history[userID])
	return entries, nil
}

func (s *MemoryStore) ClearHistory(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.history, userID)
	return nil
}

func (s *MemoryStore) UpsertSession(_ context.Context, userID string, session *domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()
	session.DeriveTitle()

	stored := cloneSession(session)
	sessions := s.sessions[userID]
	for i, existing := range sessions {
		if existing.ID == session.ID {
			sessions[i] = stored
			return nil
		}
	}

	sessions = append([]*domain.ChatSession{stored}, sessions...)
	if len(sessions) > MaxEntries {
		sessions = sessions[:MaxEntries]
	}
	s.sessions[userID] = sessions
	return nil
}

func (s *MemoryStore) ListSessions(_ context.Context, userID string) ([]*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*domain.ChatSession, 0, len(s.sessions[userID]))
	for _, session := range s.sessions[userID] {
		sessions = append(sessions, cloneSession(session))
	}
	return sessions, nil
}

func (s *MemoryStore) GetSession(_ context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions[userID] {
		if session.ID == sessionID {
			return cloneSession(session), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions[userID]
	for i, session := range sessions {
		if session.ID == sessionID {
			s.sessions[userID] = append(sessions[:i:i], sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// cloneSession copies a session deeply enough that callers cannot mutate
// stored state through shared slices.
func cloneSession(in *domain.ChatSession) *domain.ChatSession {
	out := *in
	out.Messages = make([]domain.AgentMessage, len(in.Messages))
	copy(out.Messages, in.Messages)
	if in.CompanyData != nil {
		data := *in.CompanyData
		out.CompanyData = &data
	}
	if in.CompareCompanyData != nil {
		data := *in.CompareCompanyData
		out.CompareCompanyData = &data
	}
	return &out
}
