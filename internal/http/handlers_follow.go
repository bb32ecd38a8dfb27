package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dsjohal14/sentify/internal/scope/db"
)

// HandleFollow toggles whether the user follows a company
func (h *Handler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid follow request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "No ticker provided", "MISSING_TICKER")
		return
	}

	followed, err := h.store.ToggleFollow(r.Context(), user, ticker)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ticker does not exist", "UNKNOWN_TICKER")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", user).Str("ticker", ticker).Msg("failed to toggle follow")
		writeError(w, http.StatusInternalServerError, "failed to update follow", "STORE_ERROR")
		return
	}

	status := "unfollowed"
	if followed {
		status = "followed"
	}

	h.logger.Info().
		Int64("user_id", user).
		Str("ticker", ticker).
		Str("status", status).
		Msg("follow toggled")

	writeJSON(w, http.StatusOK, FollowResponse{Status: status, Ticker: ticker})
}

// HandleFollows lists the tickers the user follows
func (h *Handler) HandleFollows(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	tickers, err := h.store.ListFollows(r.Context(), user)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", user).Msg("failed to list follows")
		writeError(w, http.StatusInternalServerError, "failed to list follows", "STORE_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, tickers)
}
