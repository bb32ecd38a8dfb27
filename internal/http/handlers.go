package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dsjohal14/sentify/internal/libs/jobs"
	"github.com/dsjohal14/sentify/internal/libs/push"
	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/dsjohal14/sentify/internal/scope/search"
	"github.com/rs/zerolog"
)

// UserHeader carries the authenticated user's id, set by the auth proxy in front of the API
const UserHeader = "X-User-ID"

// Handler contains HTTP handlers for the API
type Handler struct {
	store      db.Storage
	index      *search.Index
	snapshot   *db.Snapshot
	queue      *jobs.Queue
	hub        *push.Hub
	logger     zerolog.Logger
	attempts   int
	retryDelay time.Duration
}

// Option configures a Handler
type Option func(*Handler)

// WithSnapshot enables the on-disk directory fallback
func WithSnapshot(s *db.Snapshot) Option {
	return func(h *Handler) { h.snapshot = s }
}

// WithQueue enables follower notifications for ingested articles
func WithQueue(q *jobs.Queue) Option {
	return func(h *Handler) { h.queue = q }
}

// WithHub enables the live notification stream
func WithHub(hub *push.Hub) Option {
	return func(h *Handler) { h.hub = hub }
}

// WithAttempts sets how many times the directory read is tried
func WithAttempts(n int, delay time.Duration) Option {
	return func(h *Handler) {
		if n > 0 {
			h.attempts = n
		}
		if delay >= 0 {
			h.retryDelay = delay
		}
	}
}

// NewHandler creates a new HTTP handler
func NewHandler(store db.Storage, index *search.Index, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:      store,
		index:      index,
		logger:     logger,
		attempts:   3,
		retryDelay: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// requireUser returns the caller's user id, or writes 401 and returns false
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Login required", "UNAUTHORIZED")
	}
	return id, ok
}

func userID(r *http.Request) (int64, bool) {
	raw := r.Header.Get(UserHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
