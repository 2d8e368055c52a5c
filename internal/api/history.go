package api

import (
	"log/slog"
	"net/http"

	"github.com/Shashank29160/AccountGen/internal/identity"
	"github.com/Shashank29160/AccountGen/internal/store"
)

// ListHistory returns the user's research history, deduplicated to one entry
// per company name.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	entries, err := h.repo.ListHistory(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list history", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"history": store.DedupeHistory(entries)})
}

// ClearHistory deletes the user's entire research history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if err := h.repo.ClearHistory(r.Context(), userID); err != nil {
		slog.Error("failed to clear history", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
