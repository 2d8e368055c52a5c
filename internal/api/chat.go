package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Shashank29160/AccountGen/internal/dispatch"
	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/identity"
	"github.com/Shashank29160/AccountGen/internal/research"
)

type chatMessageRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

type chatMessageResponse struct {
	Session  *domain.ChatSession   `json:"session"`
	Messages []domain.AgentMessage `json:"messages"`
}

// ChatMessage runs the full dispatch flow for one user utterance: append the
// user message, classify it, route to research, comparison or follow-up, and
// persist every resulting message on the session.
func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		Error(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx := r.Context()
	sess, err := h.resolveSession(w, r, userID, req.SessionID)
	if sess == nil || err != nil {
		return
	}

	produced, err := h.dispatchUtterance(ctx, userID, sess, req.Text, nil)
	if err != nil {
		slog.Error("failed to persist chat messages", "user_id", userID, "session_id", sess.ID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to save messages")
		return
	}

	JSON(w, http.StatusOK, chatMessageResponse{Session: sess, Messages: produced})
}

// dispatchUtterance runs the whole flow for one user utterance against a
// loaded session: persist the user message, classify, route to research,
// comparison or follow-up, bind any resolved company, and persist the
// produced messages. emit, when non-nil, receives each produced message as
// soon as it exists so transports can stream them.
func (h *Handler) dispatchUtterance(ctx context.Context, userID string, sess *domain.ChatSession, text string, emit func(domain.AgentMessage)) ([]domain.AgentMessage, error) {
	userMsg := domain.NewMessage(domain.RoleUser, text)
	if err := h.sessions.AppendMessages(ctx, userID, sess, userMsg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	h.logChat(userID, sess.ID, userMsg)

	var produced []domain.AgentMessage

	switch dispatch.ClassifyUtterance(text, sess.CompanyData != nil) {
	case dispatch.RouteComparison:
		target := dispatch.ExtractComparisonTarget(text)
		msgs, data, _ := h.dispatcher.CompareCompany(ctx, userID, sess.CompanyData.Name, target, emit)
		produced = msgs
		if data != nil {
			if err := h.sessions.BindCompareCompany(ctx, userID, sess, data); err != nil {
				slog.Error("failed to bind comparison company", "user_id", userID, "session_id", sess.ID, "error", err)
			}
		}

	case dispatch.RouteResearch:
		msgs, data, _ := h.dispatcher.SearchCompany(ctx, userID, text, emit)
		produced = msgs
		if data != nil {
			bind := h.sessions.BindCompany
			if sess.CompareMode && sess.CompanyData != nil {
				bind = h.sessions.BindCompareCompany
			}
			if err := bind(ctx, userID, sess, data); err != nil {
				slog.Error("failed to bind company", "user_id", userID, "session_id", sess.ID, "error", err)
			}
		}

	default:
		reply := h.dispatcher.HandleFollowUp(ctx, text, sess.CompanyData, sess.Messages)
		if emit != nil {
			emit(reply)
		}
		produced = []domain.AgentMessage{reply}
	}

	if err := h.sessions.AppendMessages(ctx, userID, sess, produced...); err != nil {
		return nil, fmt.Errorf("persist agent messages: %w", err)
	}
	for _, msg := range produced {
		h.logChat(userID, sess.ID, msg)
	}
	return produced, nil
}

// resolveSession loads the named session, or creates a fresh one when no ID
// is given. Writes the error response itself and returns nil on failure.
func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request, userID, sessionID string) (*domain.ChatSession, error) {
	ctx := r.Context()
	if sessionID == "" {
		sess, err := h.sessions.Create(ctx, userID)
		if err != nil {
			slog.Error("failed to create session", "user_id", userID, "error", err)
			Error(w, http.StatusInternalServerError, "failed to create session")
			return nil, err
		}
		return sess, nil
	}

	sess, err := h.sessions.Select(ctx, userID, sessionID)
	if err != nil {
		slog.Error("failed to load session", "user_id", userID, "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return nil, err
	}
	if sess == nil {
		Error(w, http.StatusNotFound, "session not found")
		return nil, nil
	}
	return sess, nil
}

type researchRequest struct {
	Query string `json:"query"`
}

type researchResponse struct {
	Messages    []domain.AgentMessage `json:"messages"`
	CompanyData *domain.CompanyData   `json:"companyData,omitempty"`
}

// Research runs a one-shot research flow outside any session.
func (h *Handler) Research(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		Error(w, http.StatusBadRequest, "query is required")
		return
	}

	msgs, data, err := h.dispatcher.SearchCompany(r.Context(), userID, req.Query, nil)
	if err != nil {
		slog.Error("research failed", "user_id", userID, "query", req.Query, "error", err)
		Error(w, http.StatusInternalServerError, "research failed")
		return
	}

	JSON(w, http.StatusOK, researchResponse{Messages: msgs, CompanyData: data})
}

// Prompts returns the suggested starter prompts.
func (h *Handler) Prompts(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string][]string{"prompts": research.SuggestedPrompts()})
}
