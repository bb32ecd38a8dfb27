// Package httpapi provides HTTP handlers and data transfer objects for the Sentify dashboard API.
package httpapi

import (
	"time"

	"github.com/dsjohal14/sentify/internal/scope/search"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status          string `json:"status"`
	CompanyCount    int    `json:"company_count"`
	DirectoryLoaded bool   `json:"directory_loaded"`
	MaxResults      int    `json:"max_results"`
	PendingJobs     int    `json:"pending_jobs"`
}

// SearchResponse is the JSON form of a search box query
type SearchResponse struct {
	State     search.DisplayState `json:"state"`
	Companies []search.Company    `json:"companies"`
	Query     string              `json:"query"`
}

// FollowRequest toggles a follow on a company
type FollowRequest struct {
	Ticker string `json:"ticker"`
}

// FollowResponse reports the follow state after a toggle
type FollowResponse struct {
	Status string `json:"status"` // followed or unfollowed
	Ticker string `json:"ticker"`
}

// StatusResponse is the body of the notification endpoints
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ArticlesResponse wraps the article list for the news feed
type ArticlesResponse struct {
	Articles any `json:"articles"`
}

// RatingPoint is one point of the daily rating line chart
type RatingPoint struct {
	Date   string  `json:"date"`
	Rating float64 `json:"rating"`
}

// SentimentResponse carries the doughnut and line chart data for a company
type SentimentResponse struct {
	Ticker      string        `json:"ticker"`
	Positive    int           `json:"positive"`
	Negative    int           `json:"negative"`
	Available   bool          `json:"available"`
	PositivePct int           `json:"positive_pct"`
	Ratings     []RatingPoint `json:"ratings"`
}

// IngestArticleRequest represents an article pushed by the news collector
type IngestArticleRequest struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Ticker         string    `json:"ticker"`
	Source         string    `json:"source"`
	SourceDomain   string    `json:"source_domain"`
	Published      time.Time `json:"published,omitempty"` // Defaults to now
	Description    string    `json:"description,omitempty"`
	BannerImage    string    `json:"banner_image,omitempty"`
	SentimentLabel string    `json:"sentiment_label"`
	SentimentScore float64   `json:"sentiment_score"`
	Topics         []string  `json:"topics,omitempty"`
}

// IngestResponse represents ingestion response
type IngestResponse struct {
	URL      string `json:"url"`
	Inserted bool   `json:"inserted"`
	JobID    string `json:"job_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
