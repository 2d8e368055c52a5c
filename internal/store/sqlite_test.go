package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

func newSQLiteTest(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return repo
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	repoTest(t, newSQLiteTest)
}

func TestSQLitePing(t *testing.T) {
	t.Parallel()

	repo := newSQLiteTest(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestSQLiteSkipsCorruptRows(t *testing.T) {
	t.Parallel()

	repo := newSQLiteTest(t)
	ctx := context.Background()

	good := domain.NewCompanyHistory("Acme", domain.CompanyData{Name: "Acme"}, time.Now())
	if err := repo.AppendHistory(ctx, "user1", good); err != nil {
		t.Fatalf("append: %v", err)
	}

	s := repo.(*SQLiteStore)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO company_history (user_id, entry_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		"user1", "bad", "{not json", time.Now().Unix()); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	entries, err := repo.ListHistory(ctx, "user1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].CompanyName != "Acme" {
		t.Errorf("expected corrupt row to be skipped, got %+v", entries)
	}
}

func TestSQLiteTimestampsSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newSQLiteTest(t)
	ctx := context.Background()

	ts := time.Date(2026, 1, 15, 10, 30, 45, 123456789, time.UTC)
	entry := domain.NewCompanyHistory("Acme", domain.CompanyData{}, ts)
	if err := repo.AppendHistory(ctx, "user1", entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := repo.ListHistory(ctx, "user1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp lost precision: %v != %v", entries[0].Timestamp, ts)
	}
}
