// Package api provides HTTP handlers for the AccountGen API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Shashank29160/AccountGen/internal/chatlog"
	"github.com/Shashank29160/AccountGen/internal/dispatch"
	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/session"
	"github.com/Shashank29160/AccountGen/internal/store"
)

// Handler provides common handler utilities and dependencies.
type Handler struct {
	repo       store.Repository
	sessions   *session.Service
	dispatcher *dispatch.Service
	chatLog    *chatlog.Logger
}

// NewHandler creates a new Handler with common dependencies. chatLog may be
// nil when conversation logging is disabled.
func NewHandler(repo store.Repository, sessions *session.Service, dispatcher *dispatch.Service, chatLog *chatlog.Logger) *Handler {
	return &Handler{
		repo:       repo,
		sessions:   sessions,
		dispatcher: dispatcher,
		chatLog:    chatLog,
	}
}

// RegisterRoutes registers all API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/prompts", h.Prompts)
		r.Post("/chat/message", h.ChatMessage)
		r.Post("/research", h.Research)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.ListSessions)
			r.Post("/", h.CreateSession)
			r.Get("/{sessionID}", h.GetSession)
			r.Delete("/{sessionID}", h.DeleteSession)
			r.Post("/{sessionID}/company", h.EditCompany)
			r.Post("/{sessionID}/compare/exit", h.ExitCompare)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.ListHistory)
			r.Delete("/", h.ClearHistory)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Health reports storage connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) logChat(userID, sessionID string, msg domain.AgentMessage) {
	if h.chatLog == nil {
		return
	}
	h.chatLog.Log(chatlog.Event{
		Timestamp: time.Now(),
		UserID:    userID,
		SessionID: sessionID,
		Role:      string(msg.Role),
		EventType: string(msg.Type),
		Content:   msg.Content,
	})
}
