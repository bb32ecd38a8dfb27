package db

import (
	"context"
	"time"

	"github.com/dsjohal14/sentify/internal/seed"
)

// Storage is the interface for dashboard storage
// Both PGStore (Postgres) and SQLiteStore (embedded) implement this interface
type Storage interface {
	// Migrate creates the schema if it does not exist
	Migrate(ctx context.Context) error

	// Seed inserts sectors and companies, skipping existing rows
	Seed(ctx context.Context, data *seed.Data) error

	// Count returns the number of companies
	Count(ctx context.Context) (int, error)

	// ListCompanies returns the directory ordered by ticker
	ListCompanies(ctx context.Context) ([]Company, error)

	// GetCompany returns one company or ErrNotFound
	GetCompany(ctx context.Context, ticker string) (Company, error)

	// ToggleFollow follows or unfollows ticker and reports whether the user now follows it
	ToggleFollow(ctx context.Context, userID int64, ticker string) (bool, error)

	// ListFollows returns the tickers a user follows
	ListFollows(ctx context.Context, userID int64) ([]string, error)

	// Followers returns the users following ticker
	Followers(ctx context.Context, ticker string) ([]int64, error)

	// AddNotification appends to a user's inbox
	AddNotification(ctx context.Context, userID int64, message string) (Notification, error)

	// ListNotifications returns a user's inbox, newest first
	ListNotifications(ctx context.Context, userID int64) ([]Notification, error)

	// DeleteNotification removes one of the user's notifications or returns ErrNotFound
	DeleteNotification(ctx context.Context, userID, id int64) error

	// DeleteNotifications clears a user's inbox
	DeleteNotifications(ctx context.Context, userID int64) (int64, error)

	// AddArticle stores an article; a known URL is skipped and reported as false
	AddArticle(ctx context.Context, article Article) (bool, error)

	// ListArticles returns the newest articles for the given tickers
	ListArticles(ctx context.Context, tickers []string, limit int) ([]Article, error)

	// SentimentCounts counts positive and negative articles for ticker
	SentimentCounts(ctx context.Context, ticker string) (SentimentCounts, error)

	// RecordRating stores the day's positive percentage for ticker.
	// Returns false when a rating already exists or there were no articles that day.
	RecordRating(ctx context.Context, ticker string, day time.Time) (bool, error)

	// ListRatings returns ratings on or after since, oldest first
	ListRatings(ctx context.Context, ticker string, since time.Time) ([]Rating, error)

	// Close releases the underlying connections
	Close() error
}

// Ensure both stores implement Storage
var _ Storage = (*PGStore)(nil)
var _ Storage = (*SQLiteStore)(nil)
