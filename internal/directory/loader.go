// Package directory fetches the company directory from the API and feeds it to the search index.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dsjohal14/sentify/internal/scope/search"
	"github.com/rs/zerolog"
)

// Path is the directory endpoint, relative to the base URL
const Path = "/retrieve_companies/"

// Loader retrieves the company directory once per call
type Loader struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.httpClient = c
		}
	}
}

// NewLoader creates a loader for the API at baseURL
func NewLoader(baseURL string, logger zerolog.Logger, opts ...Option) *Loader {
	l := &Loader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type entry struct {
	Name   string `json:"company_name"`
	Ticker string `json:"stock_ticker"`
}

// Fetch downloads the directory. Entries missing a name or ticker are dropped.
func (l *Loader) Fetch(ctx context.Context) ([]search.Company, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+Path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch directory: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("directory returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode directory: %w", err)
	}

	companies := make([]search.Company, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		if e.Name == "" || e.Ticker == "" {
			dropped++
			continue
		}
		companies = append(companies, search.Company{Name: e.Name, Ticker: e.Ticker})
	}
	if dropped > 0 {
		l.logger.Warn().Int("dropped", dropped).Msg("directory entries without name or ticker")
	}

	return companies, nil
}

// LoadInto makes a single attempt to fill idx. On failure the error is logged
// and idx keeps whatever it held before. Returns the number of companies loaded.
func (l *Loader) LoadInto(ctx context.Context, idx *search.Index) int {
	start := time.Now()
	companies, err := l.Fetch(ctx)
	if err != nil {
		l.logger.Error().Err(err).Str("url", l.baseURL+Path).Msg("company directory unavailable, search stays empty")
		return 0
	}

	idx.Load(companies)
	l.logger.Info().
		Int("companies", len(companies)).
		Dur("took", time.Since(start)).
		Msg("company directory loaded")
	return len(companies)
}

// Start runs LoadInto in the background. Searches issued before it completes
// see the previous (initially empty) list. The returned channel receives the
// loaded count and is then closed.
func (l *Loader) Start(ctx context.Context, idx *search.Index) <-chan int {
	done := make(chan int, 1)
	go func() {
		defer close(done)
		done <- l.LoadInto(ctx, idx)
	}()
	return done
}
