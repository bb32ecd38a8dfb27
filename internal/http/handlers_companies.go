package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/dsjohal14/sentify/internal/scope/search"
)

const maxAttemptsMessage = "Maximum number of attempts reached. Could not retrieve companies."

var errNoSnapshot = errors.New("no directory snapshot configured")

// HandleCompanies serves the company directory as [{stock_ticker, company_name}].
// The database is tried several times, then the last snapshot is used.
// Every successful read also refreshes the search index.
func (h *Handler) HandleCompanies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	companies, err := h.readDirectory(ctx)
	source := "database"
	if err != nil {
		companies, err = h.readSnapshot()
		source = "snapshot"
	}
	if err != nil {
		h.logger.Error().Err(err).Int("attempts", h.attempts).Msg("company directory unavailable")
		writeError(w, http.StatusInternalServerError, maxAttemptsMessage, "DIRECTORY_UNAVAILABLE")
		return
	}

	list := toSearchCompanies(companies)
	h.index.Load(list)

	h.logger.Debug().
		Str("source", source).
		Int("companies", len(list)).
		Msg("company directory served")

	writeJSON(w, http.StatusOK, list)
}

// RefreshIndex loads the directory from storage into the search index
func (h *Handler) RefreshIndex(ctx context.Context) (int, error) {
	companies, err := h.readDirectory(ctx)
	if err != nil {
		return 0, err
	}
	list := toSearchCompanies(companies)
	h.index.Load(list)
	return len(list), nil
}

func (h *Handler) readDirectory(ctx context.Context) ([]db.Company, error) {
	var lastErr error
	for attempt := 1; attempt <= h.attempts; attempt++ {
		companies, err := h.store.ListCompanies(ctx)
		if err == nil {
			h.saveSnapshot(companies)
			return companies, nil
		}
		lastErr = err
		h.logger.Warn().Err(err).Int("attempt", attempt).Msg("failed to read company directory")

		if attempt == h.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(h.retryDelay):
		}
	}
	return nil, lastErr
}

func (h *Handler) saveSnapshot(companies []db.Company) {
	if h.snapshot == nil {
		return
	}
	if err := h.snapshot.Save(companies); err != nil {
		h.logger.Warn().Err(err).Str("path", h.snapshot.Path()).Msg("failed to save directory snapshot")
	}
}

func (h *Handler) readSnapshot() ([]db.Company, error) {
	if h.snapshot == nil {
		return nil, errNoSnapshot
	}
	companies, err := h.snapshot.Load()
	if err != nil {
		return nil, err
	}
	h.logger.Warn().Int("companies", len(companies)).Msg("serving company directory from snapshot")
	return companies, nil
}

func toSearchCompanies(companies []db.Company) []search.Company {
	list := make([]search.Company, len(companies))
	for i, c := range companies {
		list[i] = search.Company{Name: c.Name, Ticker: c.Ticker}
	}
	return list
}
