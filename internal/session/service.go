// Package session owns the lifecycle of chat sessions and keeps every
// mutation synchronized with the store.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/store"
)

// Service manages chat sessions on top of the repository. Sessions are
// persisted on every mutation; the caller's copy stays authoritative until
// Select replaces it wholesale.
type Service struct {
	repo store.Repository
	now  func() time.Time
}

// NewService creates a session service.
func NewService(repo store.Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create starts a new empty session and persists it immediately.
func (s *Service) Create(ctx context.Context, userID string) (*domain.ChatSession, error) {
	session := domain.NewChatSession(s.now())
	if err := s.repo.UpsertSession(ctx, userID, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// AppendMessages extends the session's message sequence and persists.
func (s *Service) AppendMessages(ctx context.Context, userID string, session *domain.ChatSession, msgs ...domain.AgentMessage) error {
	session.Messages = append(session.Messages, msgs...)
	if err := s.repo.UpsertSession(ctx, userID, session); err != nil {
		return fmt.Errorf("append messages: %w", err)
	}
	return nil
}

// BindCompany sets or replaces the session's primary research subject.
func (s *Service) BindCompany(ctx context.Context, userID string, session *domain.ChatSession, data *domain.CompanyData) error {
	session.CompanyData = data
	if err := s.repo.UpsertSession(ctx, userID, session); err != nil {
		return fmt.Errorf("bind company: %w", err)
	}
	return nil
}

// BindCompareCompany holds a second company for side-by-side review. The
// primary company is left untouched.
func (s *Service) BindCompareCompany(ctx context.Context, userID string, session *domain.ChatSession, data *domain.CompanyData) error {
	session.CompareCompanyData = data
	session.CompareMode = data != nil
	if err := s.repo.UpsertSession(ctx, userID, session); err != nil {
		return fmt.Errorf("bind compare company: %w", err)
	}
	return nil
}

// ExitCompare drops the comparison company and leaves compare mode.
func (s *Service) ExitCompare(ctx context.Context, userID string, session *domain.ChatSession) error {
	return s.BindCompareCompany(ctx, userID, session, nil)
}

// Select loads a persisted session, replacing any in-memory state wholesale.
// Returns nil when the session does not exist.
func (s *Service) Select(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	session, err := s.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return session, nil
}

// List returns the user's sessions newest-first.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.ChatSession, error) {
	sessions, err := s.repo.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a session from the store. An already-loaded in-memory copy
// is unaffected.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
