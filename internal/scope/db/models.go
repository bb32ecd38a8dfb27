// Package db provides storage for companies, follows, notifications, articles and sentiment ratings.
package db

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a ticker or notification does not exist
var ErrNotFound = errors.New("not found")

// Sentiment labels produced by the article classifier
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
)

// Company is a row of the company directory
type Company struct {
	Ticker      string `json:"stock_ticker"`
	Name        string `json:"company_name"`
	Sector      string `json:"sector,omitempty"`
	Description string `json:"description,omitempty"`
}

// Notification is an inbox entry for a user
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"time"`
}

// Article is a news article attached to a company
type Article struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Ticker         string    `json:"ticker"`
	SourceName     string    `json:"source"`
	SourceDomain   string    `json:"source_domain"`
	Published      time.Time `json:"published"`
	Description    string    `json:"description,omitempty"`
	BannerImage    string    `json:"banner_image,omitempty"`
	SentimentLabel string    `json:"sentiment_label"`
	SentimentScore float64   `json:"sentiment_score"`
	Topics         []string  `json:"topics"`
}

// SentimentCounts holds the number of positive and negative articles for a ticker
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Total returns the number of classified articles
func (c SentimentCounts) Total() int {
	return c.Positive + c.Negative
}

// Rating is the daily positive-article percentage for a ticker
type Rating struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Rating float64   `json:"rating"`
}

// dayBounds returns the UTC midnight starting t's day and the next midnight
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// positiveRating returns the positive share as a whole percentage
func positiveRating(positive, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(positive * 100 / total)
}
