// Package search provides the in-memory company search index behind the search box.
package search

import (
	"strings"
	"sync"
)

// MaxResults is the default cap on the number of companies returned by a search
const MaxResults = 4

// Company is a searchable directory entry
type Company struct {
	Name   string `json:"company_name"`
	Ticker string `json:"stock_ticker"`
}

// DisplayState tells the renderer what to do with the results container
type DisplayState string

// Display states
const (
	Hidden    DisplayState = "hidden"    // empty query, hide the container
	Empty     DisplayState = "empty"     // show the "no matches" row
	Populated DisplayState = "populated" // show the result rows
)

// QueryResult is the outcome of a single search
type QueryResult struct {
	State     DisplayState `json:"state"`
	Companies []Company    `json:"companies"`
}

// Index holds the loaded company list and answers substring queries against it.
// The list is replaced wholesale by Load and never mutated in place.
type Index struct {
	mu         sync.RWMutex
	companies  []Company
	loaded     bool
	maxResults int
}

// Option configures an Index
type Option func(*Index)

// WithMaxResults overrides MaxResults. Values <= 0 keep the default.
func WithMaxResults(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.maxResults = n
		}
	}
}

// NewIndex creates an empty index
func NewIndex(opts ...Option) *Index {
	idx := &Index{maxResults: MaxResults}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Load replaces the backing list with a copy of list
func (idx *Index) Load(list []Company) {
	companies := make([]Company, len(list))
	copy(companies, list)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.companies = companies
	idx.loaded = true
}

// Search matches query case-insensitively against name and ticker.
// The query is trimmed first; a blank query hides the results.
func (idx *Index) Search(query string) QueryResult {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return QueryResult{State: Hidden, Companies: []Company{}}
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]Company, 0, idx.maxResults)
	for _, c := range idx.companies {
		if !matches(c, q) {
			continue
		}
		results = append(results, c)
		if len(results) == idx.maxResults {
			break
		}
	}

	if len(results) == 0 {
		return QueryResult{State: Empty, Companies: []Company{}}
	}
	return QueryResult{State: Populated, Companies: results}
}

// Len returns the number of loaded companies
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.companies)
}

// Loaded reports whether Load has been called at least once
func (idx *Index) Loaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.loaded
}

// MaxResults returns the configured result cap
func (idx *Index) MaxResults() int {
	return idx.maxResults
}

// dottedCapitalI lowercases U+0130 to "i" plus a combining dot above,
// where strings.ToLower would yield a bare "i".
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

func fold(s string) string {
	return strings.ToLower(dottedCapitalI.Replace(s))
}

// q must already be folded
func matches(c Company, q string) bool {
	return strings.Contains(fold(c.Name), q) ||
		strings.Contains(fold(c.Ticker), q)
}
