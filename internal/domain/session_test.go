package domain

import (
	"testing"
	"time"
)

func TestDeriveTitleUsesCompanyNameAfterCompletedResearch(t *testing.T) {
	t.Parallel()

	s := NewChatSession(time.Now())
	s.CompanyData = &CompanyData{Name: "Tesla Inc. (TSLA)"}
	s.Messages = append(s.Messages,
		NewMessage(RoleUser, "Research Tesla"),
		NewMessage(RoleAgent, "Great! I've completed comprehensive research on Tesla Inc. (TSLA)."),
	)

	s.DeriveTitle()
	if s.Title != "Tesla Inc. (TSLA)" {
		t.Errorf("expected company title, got %q", s.Title)
	}
}

func TestDeriveTitleFallsBackToDate(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	s := NewChatSession(created)
	s.Messages = append(s.Messages, NewMessage(RoleUser, "hello"))

	s.DeriveTitle()
	if s.Title != "Chat 3/9/2026" {
		t.Errorf("expected dated title, got %q", s.Title)
	}
}

func TestDeriveTitleKeepsDefaultForEmptySession(t *testing.T) {
	t.Parallel()

	s := NewChatSession(time.Now())
	s.DeriveTitle()
	if s.Title != DefaultSessionTitle {
		t.Errorf("expected default title, got %q", s.Title)
	}
}

func TestDeriveTitleDoesNotRetitle(t *testing.T) {
	t.Parallel()

	s := NewChatSession(time.Now())
	s.Title = "My Custom Title"
	s.CompanyData = &CompanyData{Name: "Acme"}
	s.Messages = append(s.Messages, NewMessage(RoleAgent, "research completed"))

	s.DeriveTitle()
	if s.Title != "My Custom Title" {
		t.Errorf("custom title overwritten: %q", s.Title)
	}
}

func TestRecentMessages(t *testing.T) {
	t.Parallel()

	s := NewChatSession(time.Now())
	for i := 0; i < 15; i++ {
		s.Messages = append(s.Messages, NewMessage(RoleUser, "msg"))
	}

	if got := len(s.RecentMessages(10)); got != 10 {
		t.Errorf("expected 10 messages, got %d", got)
	}
	if got := len(s.RecentMessages(20)); got != 15 {
		t.Errorf("expected all 15 messages, got %d", got)
	}
}

func TestNewMessageIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewMessage(RoleUser, "x")
		if seen[msg.ID] {
			t.Fatalf("duplicate message ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}
