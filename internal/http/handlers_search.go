package httpapi

import (
	"bytes"
	"net/http"

	"github.com/dsjohal14/sentify/internal/render"
)

// HandleSearch answers a search box query as JSON
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	result := h.index.Search(query)

	h.logger.Debug().
		Str("query", query).
		Str("state", string(result.State)).
		Int("results", len(result.Companies)).
		Msg("search completed")

	writeJSON(w, http.StatusOK, SearchResponse{
		State:     result.State,
		Companies: result.Companies,
		Query:     query,
	})
}

// HandleSearchResults answers a search box query with the rendered results container
func (h *Handler) HandleSearchResults(w http.ResponseWriter, r *http.Request) {
	result := h.index.Search(r.URL.Query().Get("q"))

	var buf bytes.Buffer
	if err := render.Results(&buf, result); err != nil {
		h.logger.Error().Err(err).Msg("failed to render search results")
		writeError(w, http.StatusInternalServerError, "failed to render results", "RENDER_ERROR")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
