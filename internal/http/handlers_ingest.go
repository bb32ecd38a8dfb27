package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dsjohal14/sentify/internal/libs/jobs"
	"github.com/dsjohal14/sentify/internal/scope/db"
)

// HandleIngestArticle stores an article from the news collector.
// A new article queues a notification for the company's followers.
func (h *Handler) HandleIngestArticle(w http.ResponseWriter, r *http.Request) {
	var req IngestArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid ingest request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	req.SentimentLabel = strings.ToUpper(strings.TrimSpace(req.SentimentLabel))

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required", "MISSING_URL")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", "MISSING_TITLE")
		return
	}
	if req.Ticker == "" {
		writeError(w, http.StatusBadRequest, "No ticker provided", "MISSING_TICKER")
		return
	}
	if req.SentimentLabel == "" {
		writeError(w, http.StatusBadRequest, "sentiment_label is required", "MISSING_SENTIMENT")
		return
	}
	if req.Source == "" {
		req.Source = req.SourceDomain
	}

	// Set published if not provided
	if req.Published.IsZero() {
		req.Published = time.Now()
	}

	ctx := r.Context()
	if _, err := h.store.GetCompany(ctx, req.Ticker); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Ticker does not exist", "UNKNOWN_TICKER")
			return
		}
		h.logger.Error().Err(err).Str("ticker", req.Ticker).Msg("failed to get company")
		writeError(w, http.StatusInternalServerError, "failed to store article", "STORE_ERROR")
		return
	}

	inserted, err := h.store.AddArticle(ctx, db.Article{
		URL:            req.URL,
		Title:          req.Title,
		Ticker:         req.Ticker,
		SourceName:     req.Source,
		SourceDomain:   req.SourceDomain,
		Published:      req.Published,
		Description:    req.Description,
		BannerImage:    req.BannerImage,
		SentimentLabel: req.SentimentLabel,
		SentimentScore: req.SentimentScore,
		Topics:         req.Topics,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("failed to store article")
		writeError(w, http.StatusInternalServerError, "failed to store article", "STORE_ERROR")
		return
	}

	if !inserted {
		writeJSON(w, http.StatusOK, IngestResponse{URL: req.URL, Message: "article already stored"})
		return
	}

	resp := IngestResponse{URL: req.URL, Inserted: true, Message: "article stored"}
	if h.queue != nil {
		job := h.queue.Enqueue(jobs.KindNotifyFollowers, req.Ticker)
		resp.JobID = job.ID
	}

	h.logger.Info().
		Str("url", req.URL).
		Str("ticker", req.Ticker).
		Str("sentiment", req.SentimentLabel).
		Str("job_id", resp.JobID).
		Msg("article ingested")

	writeJSON(w, http.StatusCreated, resp)
}
