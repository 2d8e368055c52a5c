package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

func TestDedupeHistoryKeepsNewestPerName(t *testing.T) {
	t.Parallel()

	now := time.Now()
	entries := []domain.CompanyHistory{
		{ID: "3", CompanyName: "Tesla Inc.", Timestamp: now},
		{ID: "2", CompanyName: "Apple Inc.", Timestamp: now.Add(-time.Hour)},
		{ID: "1", CompanyName: "tesla inc.", Timestamp: now.Add(-2 * time.Hour)},
	}

	deduped := DedupeHistory(entries)
	if len(deduped) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(deduped))
	}
	if deduped[0].ID != "3" {
		t.Errorf("expected newest tesla entry first, got %q", deduped[0].ID)
	}
	if deduped[1].CompanyName != "Apple Inc." {
		t.Errorf("expected apple second, got %q", deduped[1].CompanyName)
	}
}

func TestDedupeHistoryEmpty(t *testing.T) {
	t.Parallel()

	if got := DedupeHistory(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

// repoTest runs the Repository contract tests against one implementation.
func repoTest(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("HistoryRoundTrip", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)
		ctx := context.Background()

		entry := domain.NewCompanyHistory("Acme Corp", domain.CompanyData{Name: "Acme Corp"}, time.Now())
		if err := repo.AppendHistory(ctx, "user1", entry); err != nil {
			t.Fatalf("append: %v", err)
		}

		entries, err := repo.ListHistory(ctx, "user1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) != 1 || entries[0].CompanyName != "Acme Corp" {
			t.Fatalf("unexpected entries: %+v", entries)
		}

		// Other users see nothing.
		other, err := repo.ListHistory(ctx, "user2")
		if err != nil {
			t.Fatalf("list other: %v", err)
		}
		if len(other) != 0 {
			t.Errorf("history leaked across users: %+v", other)
		}
	})

	t.Run("HistoryCapEvictsOldest", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < MaxEntries+10; i++ {
			entry := domain.NewCompanyHistory(fmt.Sprintf("Company %d", i), domain.CompanyData{}, time.Now())
			if err := repo.AppendHistory(ctx, "user1", entry); err != nil {
				t.Fatalf("append %d: %v", i, err)
			}
		}

		entries, err := repo.ListHistory(ctx, "user1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) != MaxEntries {
			t.Fatalf("expected %d entries, got %d", MaxEntries, len(entries))
		}
		if entries[0].CompanyName != fmt.Sprintf("Company %d", MaxEntries+9) {
			t.Errorf("expected newest first, got %q", entries[0].CompanyName)
		}
		if entries[len(entries)-1].CompanyName != "Company 10" {
			t.Errorf("expected oldest surviving entry last, got %q", entries[len(entries)-1].CompanyName)
		}
	})

	t.Run("ClearHistory", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)
		ctx := context.Background()

		entry := domain.NewCompanyHistory("Acme", domain.CompanyData{}, time.Now())
		if err := repo.AppendHistory(ctx, "user1", entry); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := repo.ClearHistory(ctx, "user1"); err != nil {
			t.Fatalf("clear: %v", err)
		}
		entries, err := repo.ListHistory(ctx, "user1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty history, got %d entries", len(entries))
		}
	})

	t.Run("SessionRoundTrip", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)
		ctx := context.Background()

		sess := domain.NewChatSession(time.Now())
		sess.Messages = append(sess.Messages, domain.NewMessage(domain.RoleUser, "hello"))
		if err := repo.UpsertSession(ctx, "user1", sess); err != nil {
			t.Fatalf("upsert: %v", err)
		}

		got, err := repo.GetSession(ctx, "user1", sess.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got == nil {
			t.Fatal("session not found after upsert")
		}
		if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
			t.Errorf("messages did not round-trip: %+v", got.Messages)
		}
		if !got.CreatedAt.Equal(sess.CreatedAt) {
			t.Errorf("createdAt changed: %v != %v", got.CreatedAt, sess.CreatedAt)
		}
	})

	t.Run("UpsertKeepsListPosition", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)
		ctx := context.Background()

		first := domain.NewChatSession(time.Now())
		second := domain.NewChatSession(time.Now())
		if err := repo.UpsertSession(ctx, "user1", first); err != nil {
			t.Fatalf("upsert first: %v", err)
		}
		if err := repo.UpsertSession(ctx, "user1", second); err != nil {
			t.Fatalf("upsert second: %v", err)
		}

		// Re-saving the older session must not move it to the front.
		first.Messages = append(first.Messages, domain.NewMessage(domain.RoleUser, "update"))
		if err := repo.UpsertSession(ctx, "user1", first); err != nil {
			t.Fatalf("upsert first again: %v", err)
		}

		sessions, err := repo.ListSessions(ctx, "user1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		if sessions[0].ID != second.ID {
			t.Errorf("expected second session first, got %q", sessions[0].ID)
		}
		if len(sessions[1].Messages) != 1 {
			t.Errorf("updated payload not persisted")
		}
	})

	t.Run("GetAbsentSessionReturnsNil", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)

		got, err := repo.GetSession(context.Background(), "user1", "missing")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for absent session, got %+v", got)
		}
	})

	t.Run("DeleteAbsentSessionSucceeds", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)

		if err := repo.DeleteSession(context.Background(), "user1", "missing"); err != nil {
			t.Errorf("delete absent: %v", err)
		}
	})

	t.Run("DeleteSession", func(t *testing.T) {
		t.Parallel()
		repo := newRepo(t)
		ctx := context.Background()

		sess := domain.NewChatSession(time.Now())
		if err := repo.UpsertSession(ctx, "user1", sess); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if err := repo.DeleteSession(ctx, "user1", sess.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		got, err := repo.GetSession(ctx, "user1", sess.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != nil {
			t.Errorf("session still present after delete")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	repoTest(t, func(t *testing.T) Repository {
		return NewMemory()
	})
}
