package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/go-chi/chi/v5"
)

const (
	defaultArticleLimit = 20
	maxArticleLimit     = 100
	defaultRatingDays   = 30
)

// HandleArticles returns the newest articles for ?tickers=A,B.
// Without tickers it falls back to the companies the user follows.
func (h *Handler) HandleArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tickers := splitTickers(r.URL.Query().Get("tickers"))

	if len(tickers) == 0 {
		if user, ok := userID(r); ok {
			follows, err := h.store.ListFollows(ctx, user)
			if err != nil {
				h.logger.Error().Err(err).Int64("user_id", user).Msg("failed to list follows")
				writeError(w, http.StatusInternalServerError, "failed to list articles", "STORE_ERROR")
				return
			}
			tickers = follows
		}
	}

	limit := defaultArticleLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "INVALID_LIMIT")
			return
		}
		limit = min(n, maxArticleLimit)
	}

	articles, err := h.store.ListArticles(ctx, tickers, limit)
	if err != nil {
		h.logger.Error().Err(err).Strs("tickers", tickers).Msg("failed to list articles")
		writeError(w, http.StatusInternalServerError, "failed to list articles", "STORE_ERROR")
		return
	}

	h.logger.Debug().Strs("tickers", tickers).Int("articles", len(articles)).Msg("articles fetched")
	writeJSON(w, http.StatusOK, ArticlesResponse{Articles: articles})
}

// HandleSentiment returns the doughnut counts and daily rating line for a company
func (h *Handler) HandleSentiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	if _, err := h.store.GetCompany(ctx, ticker); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Ticker does not exist", "UNKNOWN_TICKER")
			return
		}
		h.logger.Error().Err(err).Str("ticker", ticker).Msg("failed to get company")
		writeError(w, http.StatusInternalServerError, "failed to load sentiment", "STORE_ERROR")
		return
	}

	days := defaultRatingDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer", "INVALID_DAYS")
			return
		}
		days = n
	}

	counts, err := h.store.SentimentCounts(ctx, ticker)
	if err != nil {
		h.logger.Error().Err(err).Str("ticker", ticker).Msg("failed to count sentiment")
		writeError(w, http.StatusInternalServerError, "failed to load sentiment", "STORE_ERROR")
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	ratings, err := h.store.ListRatings(ctx, ticker, since)
	if err != nil {
		h.logger.Error().Err(err).Str("ticker", ticker).Msg("failed to list ratings")
		writeError(w, http.StatusInternalServerError, "failed to load sentiment", "STORE_ERROR")
		return
	}

	resp := SentimentResponse{
		Ticker:    ticker,
		Positive:  counts.Positive,
		Negative:  counts.Negative,
		Available: counts.Total() > 0,
		Ratings:   make([]RatingPoint, len(ratings)),
	}
	if resp.Available {
		resp.PositivePct = counts.Positive * 100 / counts.Total()
	}
	for i, rt := range ratings {
		resp.Ratings[i] = RatingPoint{Date: rt.Date.Format("2006-01-02"), Rating: rt.Rating}
	}

	writeJSON(w, http.StatusOK, resp)
}

func splitTickers(raw string) []string {
	tickers := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
