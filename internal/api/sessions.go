package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/identity"
)

// ListSessions returns the user's sessions, newest first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sessions, err := h.sessions.List(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list sessions", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// CreateSession starts a new empty chat session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sess, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		slog.Error("failed to create session", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	JSON(w, http.StatusCreated, sess)
}

// GetSession returns one session by ID.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	sess, err := h.sessions.Select(r.Context(), userID, sessionID)
	if err != nil {
		slog.Error("failed to load session", "user_id", userID, "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, sess)
}

// DeleteSession removes a session. Deleting an absent session succeeds.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.Delete(r.Context(), userID, sessionID); err != nil {
		slog.Error("failed to delete session", "user_id", userID, "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type editCompanyRequest struct {
	Field   domain.Field       `json:"field"`
	Content domain.EditContent `json:"content"`
}

// EditCompany applies a single-field edit to the session's company document.
func (h *Handler) EditCompany(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req editCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Field {
	case domain.FieldExecutiveSummary, domain.FieldFinancialPerformance,
		domain.FieldKeyDecisionMakers, domain.FieldStrategicGoals,
		domain.FieldRisks, domain.FieldOpportunities:
	default:
		Error(w, http.StatusBadRequest, "unknown field")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	sess, err := h.sessions.Select(r.Context(), userID, sessionID)
	if err != nil {
		slog.Error("failed to load session", "user_id", userID, "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	if sess.CompanyData == nil {
		Error(w, http.StatusConflict, "no company bound to this session")
		return
	}

	updated := domain.ApplyEdit(*sess.CompanyData, req.Field, req.Content)
	if err := h.sessions.BindCompany(r.Context(), userID, sess, &updated); err != nil {
		slog.Error("failed to save company edit", "user_id", userID, "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to save edit")
		return
	}
	JSON(w, http.StatusOK, sess)
}

// ExitCompare drops the comparison company and leaves compare mode.
func (h *Handler) ExitCompare(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	sess, err := h.sessions.Select(r.Context(), userID, sessionID)
	if err != nil {
		slog.Error("failed to load session", "user_id", userID, "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}

	if err := h.sessions.ExitCompare(r.Context(), userID, sess); err != nil {
		slog.Error("failed to exit compare mode", "user_id", userID, "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to exit compare mode")
		return
	}
	JSON(w, http.StatusOK, sess)
}
