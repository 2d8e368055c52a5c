package chatlog

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoggerWritesPerSessionFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger, err := New(Config{Enabled: true, Dir: dir, QueueSize: 10}, slog.Default())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Log(Event{UserID: "anon_abc", SessionID: "sess1", Role: "user", Content: "hello"})
	logger.Log(Event{UserID: "anon_abc", SessionID: "sess1", Role: "agent", Content: "hi"})
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := filepath.Join(dir, "anon_abc", "sess1.ndjson")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("bad NDJSON line: %v", err)
		}
		events = append(events, ev)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Content != "hello" || events[1].Content != "hi" {
		t.Errorf("events out of order: %+v", events)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}
}

func TestLoggerGlobalStream(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	globalPath := filepath.Join(dir, "all.ndjson")
	logger, err := New(Config{
		Enabled:       true,
		Dir:           dir,
		GlobalEnabled: true,
		GlobalPath:    globalPath,
		QueueSize:     10,
	}, slog.Default())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Log(Event{UserID: "u1", SessionID: "s1", Content: "one"})
	logger.Log(Event{UserID: "u2", SessionID: "s2", Content: "two"})
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(globalPath)
	if err != nil {
		t.Fatalf("read global log: %v", err)
	}
	if countLines(data) != 2 {
		t.Errorf("expected 2 lines in global stream, got %d:\n%s", countLines(data), data)
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Enabled: false}, slog.Default())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Log(Event{UserID: "u1", Content: "dropped"})
	if err := logger.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"anon_abc123", "anon_abc123"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"", "unknown"},
	}
	for _, tc := range tests {
		if got := sanitize(tc.in); got != tc.want {
			t.Errorf("sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
