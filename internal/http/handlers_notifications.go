package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/go-chi/chi/v5"
)

// HandleNotifications returns the user's inbox, newest first
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	notifications, err := h.store.ListNotifications(r.Context(), user)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", user).Msg("failed to list notifications")
		writeError(w, http.StatusInternalServerError, "failed to list notifications", "STORE_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// HandleDeleteNotification removes one notification from the user's inbox
func (h *Handler) HandleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id", "INVALID_ID")
		return
	}

	err = h.store.DeleteNotification(r.Context(), user, id)
	if errors.Is(err, db.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, StatusResponse{Status: "error", Message: "Notification not found"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", user).Int64("notification_id", id).Msg("failed to delete notification")
		writeError(w, http.StatusInternalServerError, "failed to delete notification", "STORE_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

// HandleDeleteNotifications clears the user's inbox
func (h *Handler) HandleDeleteNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	n, err := h.store.DeleteNotifications(r.Context(), user)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", user).Msg("failed to clear notifications")
		writeError(w, http.StatusInternalServerError, "failed to clear notifications", "STORE_ERROR")
		return
	}

	h.logger.Info().Int64("user_id", user).Int64("deleted", n).Msg("notifications cleared")
	writeJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}
