package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dsjohal14/sentify/internal/libs/accel"
	"github.com/dsjohal14/sentify/internal/seed"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed Storage
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a store on top of an open pool
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool}
}

// Migrate creates the schema if it does not exist
func (s *PGStore) Migrate(ctx context.Context) error {
	for _, stmt := range pgSchema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Seed inserts sectors and companies, skipping existing rows
func (s *PGStore) Seed(ctx context.Context, data *seed.Data) error {
	batch := accel.NewBatch(50)

	err := batch.Each(len(data.Sectors), func(start, end int) error {
		b := &pgx.Batch{}
		for _, name := range data.Sectors[start:end] {
			b.Queue(`INSERT INTO sectors (sector_name) VALUES ($1) ON CONFLICT (sector_name) DO NOTHING`, name)
		}
		return s.sendBatch(ctx, b)
	})
	if err != nil {
		return fmt.Errorf("failed to seed sectors: %w", err)
	}

	err = batch.Each(len(data.Companies), func(start, end int) error {
		b := &pgx.Batch{}
		for _, c := range data.Companies[start:end] {
			b.Queue(`
				INSERT INTO companies (stock_ticker, company_name, sector_id)
				SELECT $1, $2, id FROM sectors WHERE sector_name = $3
				ON CONFLICT (stock_ticker) DO NOTHING
			`, c.Ticker, c.Name, c.Sector)
		}
		return s.sendBatch(ctx, b)
	})
	if err != nil {
		return fmt.Errorf("failed to seed companies: %w", err)
	}

	return nil
}

func (s *PGStore) sendBatch(ctx context.Context, b *pgx.Batch) error {
	br := s.db.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}

// Count returns the number of companies
func (s *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}

// ListCompanies returns the directory ordered by ticker
func (s *PGStore) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.stock_ticker, c.company_name, s.sector_name, COALESCE(c.description, '')
		FROM companies c
		JOIN sectors s ON s.id = c.sector_id
		ORDER BY c.stock_ticker ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]Company, 0)
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.Ticker, &c.Name, &c.Sector, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetCompany returns one company or ErrNotFound
func (s *PGStore) GetCompany(ctx context.Context, ticker string) (Company, error) {
	var c Company
	err := s.db.QueryRow(ctx, `
		SELECT c.stock_ticker, c.company_name, s.sector_name, COALESCE(c.description, '')
		FROM companies c
		JOIN sectors s ON s.id = c.sector_id
		WHERE c.stock_ticker = $1
	`, ticker).Scan(&c.Ticker, &c.Name, &c.Sector, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	if err != nil {
		return Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// ToggleFollow follows or unfollows ticker and reports whether the user now follows it
func (s *PGStore) ToggleFollow(ctx context.Context, userID int64, ticker string) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE stock_ticker = $1)`, ticker).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check company: %w", err)
	}
	if !exists {
		return false, ErrNotFound
	}

	tag, err := tx.Exec(ctx, `DELETE FROM follows WHERE user_id = $1 AND stock_ticker = $2`, userID, ticker)
	if err != nil {
		return false, fmt.Errorf("failed to unfollow: %w", err)
	}
	followed := tag.RowsAffected() == 0
	if followed {
		if _, err := tx.Exec(ctx, `INSERT INTO follows (user_id, stock_ticker) VALUES ($1, $2)`, userID, ticker); err != nil {
			return false, fmt.Errorf("failed to follow: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit follow: %w", err)
	}
	return followed, nil
}

// ListFollows returns the tickers a user follows
func (s *PGStore) ListFollows(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT stock_ticker FROM follows WHERE user_id = $1 ORDER BY stock_ticker`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	tickers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan follows: %w", err)
	}
	return tickers, nil
}

// Followers returns the users following ticker
func (s *PGStore) Followers(ctx context.Context, ticker string) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id FROM follows WHERE stock_ticker = $1 ORDER BY user_id`, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan followers: %w", err)
	}
	return users, nil
}

// AddNotification appends to a user's inbox
func (s *PGStore) AddNotification(ctx context.Context, userID int64, message string) (Notification, error) {
	n := Notification{UserID: userID, Message: message}
	err := s.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, message) VALUES ($1, $2)
		RETURNING id, created_at
	`, userID, message).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to add notification: %w", err)
	}
	return n, nil
}

// ListNotifications returns a user's inbox, newest first
func (s *PGStore) ListNotifications(ctx context.Context, userID int64) ([]Notification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// DeleteNotification removes one of the user's notifications or returns ErrNotFound
func (s *PGStore) DeleteNotification(ctx context.Context, userID, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNotifications clears a user's inbox
func (s *PGStore) DeleteNotifications(ctx context.Context, userID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AddArticle stores an article; a known URL is skipped and reported as false
func (s *PGStore) AddArticle(ctx context.Context, a Article) (bool, error) {
	topics, err := encodeTopics(a.Topics)
	if err != nil {
		return false, err
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO articles (url, title, stock_ticker, source_name, source_domain, published,
		                      description, banner_image, sentiment_label, sentiment_score, topics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (url) DO NOTHING
	`, a.URL, a.Title, a.Ticker, a.SourceName, a.SourceDomain, a.Published.UTC(),
		nullable(a.Description), nullable(a.BannerImage), a.SentimentLabel, a.SentimentScore, topics)
	if err != nil {
		return false, fmt.Errorf("failed to add article: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListArticles returns the newest articles for the given tickers
func (s *PGStore) ListArticles(ctx context.Context, tickers []string, limit int) ([]Article, error) {
	if len(tickers) == 0 {
		return []Article{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, url, title, stock_ticker, source_name, source_domain, published,
		       COALESCE(description, ''), COALESCE(banner_image, ''),
		       sentiment_label, sentiment_score, topics
		FROM articles
		WHERE stock_ticker = ANY($1)
		ORDER BY published DESC, id DESC
		LIMIT $2
	`, tickers, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]Article, 0)
	for rows.Next() {
		var a Article
		var topics string
		err := rows.Scan(&a.ID, &a.URL, &a.Title, &a.Ticker, &a.SourceName, &a.SourceDomain, &a.Published,
			&a.Description, &a.BannerImage, &a.SentimentLabel, &a.SentimentScore, &topics)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		if a.Topics, err = decodeTopics(topics); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// SentimentCounts counts positive and negative articles for ticker
func (s *PGStore) SentimentCounts(ctx context.Context, ticker string) (SentimentCounts, error) {
	var c SentimentCounts
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE UPPER(sentiment_label) = $2),
		       COUNT(*) FILTER (WHERE UPPER(sentiment_label) = $3)
		FROM articles
		WHERE stock_ticker = $1
	`, ticker, LabelPositive, LabelNegative).Scan(&c.Positive, &c.Negative)
	if err != nil {
		return SentimentCounts{}, fmt.Errorf("failed to count sentiment: %w", err)
	}
	return c, nil
}

// RecordRating stores the day's positive percentage for ticker
func (s *PGStore) RecordRating(ctx context.Context, ticker string, day time.Time) (bool, error) {
	start, end := dayBounds(day)

	var positive, total int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE UPPER(sentiment_label) = $4), COUNT(*)
		FROM articles
		WHERE stock_ticker = $1 AND published >= $2 AND published < $3
	`, ticker, start, end, LabelPositive).Scan(&positive, &total)
	if err != nil {
		return false, fmt.Errorf("failed to count day articles: %w", err)
	}
	if total == 0 {
		return false, nil
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO sentiment_ratings (stock_ticker, date, rating) VALUES ($1, $2, $3)
		ON CONFLICT (stock_ticker, date) DO NOTHING
	`, ticker, start, positiveRating(positive, total))
	if err != nil {
		return false, fmt.Errorf("failed to record rating: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListRatings returns ratings on or after since, oldest first
func (s *PGStore) ListRatings(ctx context.Context, ticker string, since time.Time) ([]Rating, error) {
	start, _ := dayBounds(since)
	rows, err := s.db.Query(ctx, `
		SELECT stock_ticker, date, rating
		FROM sentiment_ratings
		WHERE stock_ticker = $1 AND date >= $2
		ORDER BY date ASC
	`, ticker, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]Rating, 0)
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.Ticker, &r.Date, &r.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// Close closes the pool
func (s *PGStore) Close() error {
	s.db.Close()
	return nil
}

func encodeTopics(topics []string) (string, error) {
	if topics == nil {
		topics = []string{}
	}
	raw, err := json.Marshal(topics)
	if err != nil {
		return "", fmt.Errorf("failed to encode topics: %w", err)
	}
	return string(raw), nil
}

func decodeTopics(raw string) ([]string, error) {
	topics := make([]string, 0)
	if raw == "" {
		return topics, nil
	}
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}
	return topics, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
