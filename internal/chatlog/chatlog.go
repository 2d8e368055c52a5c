// Package chatlog writes conversation transcripts as NDJSON, one file per
// user/session plus an optional global stream. Writes are asynchronous so a
// slow disk never stalls a chat turn.
package chatlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config controls NDJSON conversation logging.
type Config struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Event is one logged conversation turn.
type Event struct {
	Timestamp time.Time `json:"ts"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	EventType string    `json:"event_type"`
	Content   string    `json:"content"`
}

// Logger appends conversation events to per-session NDJSON files.
type Logger struct {
	cfg    Config
	log    *slog.Logger
	queue  chan Event
	done   chan struct{}
	closed sync.Once
}

// New creates a conversation logger. When disabled, Log is a no-op.
func New(cfg Config, log *slog.Logger) (*Logger, error) {
	l := &Logger{cfg: cfg, log: log}
	if !cfg.Enabled {
		return l, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create conversation log dir: %w", err)
	}
	if cfg.GlobalEnabled {
		if err := os.MkdirAll(filepath.Dir(cfg.GlobalPath), 0755); err != nil {
			return nil, fmt.Errorf("create global conversation log dir: %w", err)
		}
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1000
	}
	l.queue = make(chan Event, queueSize)
	l.done = make(chan struct{})
	go l.run()

	return l, nil
}

// Log enqueues an event. Events are dropped (with a warning) when the queue
// is full rather than blocking the caller.
func (l *Logger) Log(event Event) {
	if l.queue == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case l.queue <- event:
	default:
		l.log.Warn("conversation log queue full, dropping event",
			"user_id", event.UserID, "session_id", event.SessionID)
	}
}

func (l *Logger) run() {
	defer close(l.done)
	for event := range l.queue {
		l.write(event)
	}
}

func (l *Logger) write(event Event) {
	line, err := json.Marshal(event)
	if err != nil {
		l.log.Warn("failed to marshal conversation event", "error", err)
		return
	}
	line = append(line, '\n')

	sessionDir := filepath.Join(l.cfg.Dir, sanitize(event.UserID))
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		l.log.Warn("failed to create session log dir", "error", err)
		return
	}
	path := filepath.Join(sessionDir, sanitize(event.SessionID)+".ndjson")
	appendLine(path, line, l.log)

	if l.cfg.GlobalEnabled {
		appendLine(l.cfg.GlobalPath, line, l.log)
	}
}

func appendLine(path string, line []byte, log *slog.Logger) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn("failed to open conversation log", "path", path, "error", err)
		return
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn("failed to close conversation log", "path", path, "error", closeErr)
		}
	}()
	if _, err := f.Write(line); err != nil {
		log.Warn("failed to write conversation log", "path", path, "error", err)
	}
}

// sanitize keeps log file names safe regardless of what arrives in IDs.
func sanitize(s string) string {
	if s == "" {
		return "unknown"
	}
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Close drains the queue and stops the writer goroutine.
func (l *Logger) Close() error {
	if l.queue == nil {
		return nil
	}
	l.closed.Do(func() {
		close(l.queue)
		<-l.done
	})
	return nil
}
