package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/identity"
)

// WebSocketHandler streams chat responses over a WebSocket connection.
// Unlike the HTTP chat endpoint, each produced message is sent as soon as it
// exists, so the client sees the progress messages one by one.
type WebSocketHandler struct {
	api           *Handler
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket chat handler.
func NewWebSocketHandler(api *Handler, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		api:           api,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// wsRequest is one client frame.
type wsRequest struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
}

// wsResponse is one server frame.
type wsResponse struct {
	Type      string               `json:"type"`
	SessionID string               `json:"sessionId,omitempty"`
	Message   *domain.AgentMessage `json:"message,omitempty"`
	Session   *domain.ChatSession  `json:"session,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	slog.Info("WebSocket chat connected", "user_id", userID, "ip", identity.IPFromRequest(r))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, raw, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			h.writeJSON(ctx, ws, wsResponse{Type: "error", Error: "invalid message"})
			continue
		}

		switch req.Type {
		case "message":
			h.handleMessage(ctx, ws, userID, req)
		case "ping":
			h.writeJSON(ctx, ws, wsResponse{Type: "pong"})
		default:
			h.writeJSON(ctx, ws, wsResponse{Type: "error", Error: "unknown message type"})
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, ws *websocket.Conn, userID string, req wsRequest) {
	if req.Content == "" {
		h.writeJSON(ctx, ws, wsResponse{Type: "error", Error: "content is required"})
		return
	}

	var sess *domain.ChatSession
	var err error
	if req.SessionID == "" {
		sess, err = h.api.sessions.Create(ctx, userID)
	} else {
		sess, err = h.api.sessions.Select(ctx, userID, req.SessionID)
	}
	if err != nil {
		slog.Error("failed to load session", "user_id", userID, "session_id", req.SessionID, "error", err)
		h.writeJSON(ctx, ws, wsResponse{Type: "error", Error: "failed to load session"})
		return
	}
	if sess == nil {
		h.writeJSON(ctx, ws, wsResponse{Type: "error", Error: "session not found"})
		return
	}

	emit := func(msg domain.AgentMessage) {
		h.writeJSON(ctx, ws, wsResponse{Type: "message", SessionID: sess.ID, Message: &msg})
	}

	if _, err := h.api.dispatchUtterance(ctx, userID, sess, req.Content, emit); err != nil {
		slog.Error("failed to dispatch message", "user_id", userID, "session_id", sess.ID, "error", err)
		h.writeJSON(ctx, ws, wsResponse{Type: "error", SessionID: sess.ID, Error: "failed to save messages"})
		return
	}

	h.writeJSON(ctx, ws, wsResponse{Type: "done", SessionID: sess.ID, Session: sess})
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v wsResponse) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
