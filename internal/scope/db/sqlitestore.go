package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsjohal14/sentify/internal/libs/accel"
	"github.com/dsjohal14/sentify/internal/seed"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const dateLayout = "2006-01-02"

// SQLiteStore is the embedded Storage used for local runs and tests
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps the pragma below in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate creates the schema if it does not exist
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Seed inserts sectors and companies, skipping existing rows
func (s *SQLiteStore) Seed(ctx context.Context, data *seed.Data) error {
	batch := accel.NewBatch(50)

	err := batch.Each(len(data.Sectors), func(start, end int) error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			for _, name := range data.Sectors[start:end] {
				if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO sectors (sector_name) VALUES (?)`, name); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to seed sectors: %w", err)
	}

	err = batch.Each(len(data.Companies), func(start, end int) error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			for _, c := range data.Companies[start:end] {
				_, err := tx.ExecContext(ctx, `
					INSERT OR IGNORE INTO companies (stock_ticker, company_name, sector_id)
					SELECT ?, ?, id FROM sectors WHERE sector_name = ?
				`, c.Ticker, c.Name, c.Sector)
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to seed companies: %w", err)
	}

	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Count returns the number of companies
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}

// ListCompanies returns the directory ordered by ticker
func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.stock_ticker, c.company_name, s.sector_name, COALESCE(c.description, '')
		FROM companies c
		JOIN sectors s ON s.id = c.sector_id
		ORDER BY c.stock_ticker ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
func (s *SQLiteStore) GetCompany(ctx context.Context, ticker string) (Company, error) {
	var c Company
	err := s.db.QueryRowContext(ctx, `
		SELECT c.stock_ticker, c.company_name, s.sector_name, COALESCE(c.description, '')
		FROM companies c
		JOIN sectors s ON s.id = c.sector_id
		WHERE c.stock_ticker = ?
	`, ticker).Scan(&c.Ticker, &c.Name, &c.Sector, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	if err != nil {
		return Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// ToggleFollow follows or unfollows ticker and reports whether the user now follows it
func (s *SQLiteStore) ToggleFollow(ctx context.Context, userID int64, ticker string) (bool, error) {
	var followed bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies WHERE stock_ticker = ?`, ticker).Scan(&n); err != nil {
			return fmt.Errorf("failed to check company: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM follows WHERE user_id = ? AND stock_ticker = ?`, userID, ticker)
		if err != nil {
			return fmt.Errorf("failed to unfollow: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if removed > 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO follows (user_id, stock_ticker) VALUES (?, ?)`, userID, ticker); err != nil {
			return fmt.Errorf("failed to follow: %w", err)
		}
		followed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return followed, nil
}

// ListFollows returns the tickers a user follows
func (s *SQLiteStore) ListFollows(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stock_ticker FROM follows WHERE user_id = ? ORDER BY stock_ticker`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tickers := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// Followers returns the users following ticker
func (s *SQLiteStore) Followers(ctx context.Context, ticker string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM follows WHERE stock_ticker = ? ORDER BY user_id`, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follower: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// AddNotification appends to a user's inbox
func (s *SQLiteStore) AddNotification(ctx context.Context, userID int64, message string) (Notification, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, message, created_at) VALUES (?, ?, ?)
	`, userID, message, now.Unix())
	if err != nil {
		return Notification{}, fmt.Errorf("failed to add notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Notification{}, fmt.Errorf("failed to read notification id: %w", err)
	}
	return Notification{ID: id, UserID: userID, Message: message, CreatedAt: now}, nil
}

// ListNotifications returns a user's inbox, newest first
func (s *SQLiteStore) ListNotifications(ctx context.Context, userID int64) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		var created int64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &created); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.CreatedAt = time.Unix(created, 0).UTC()
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// DeleteNotification removes one of the user's notifications or returns ErrNotFound
func (s *SQLiteStore) DeleteNotification(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNotifications clears a user's inbox
func (s *SQLiteStore) DeleteNotifications(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}
	return res.RowsAffected()
}

// AddArticle stores an article; a known URL is skipped and reported as false
func (s *SQLiteStore) AddArticle(ctx context.Context, a Article) (bool, error) {
	topics, err := encodeTopics(a.Topics)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO articles (url, title, stock_ticker, source_name, source_domain, published,
		                                description, banner_image, sentiment_label, sentiment_score, topics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.URL, a.Title, a.Ticker, a.SourceName, a.SourceDomain, a.Published.UTC().Unix(),
		nullable(a.Description), nullable(a.BannerImage), a.SentimentLabel, a.SentimentScore, topics)
	if err != nil {
		return false, fmt.Errorf("failed to add article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListArticles returns the newest articles for the given tickers
func (s *SQLiteStore) ListArticles(ctx context.Context, tickers []string, limit int) ([]Article, error) {
	if len(tickers) == 0 {
		return []Article{}, nil
	}

	args := make([]any, 0, len(tickers)+1)
	for _, t := range tickers {
		args = append(args, t)
	}
	args = append(args, limit)

	query := `
		SELECT id, url, title, stock_ticker, source_name, source_domain, published,
		       COALESCE(description, ''), COALESCE(banner_image, ''),
		       sentiment_label, sentiment_score, topics
		FROM articles
		WHERE stock_ticker IN (` + placeholders(len(tickers)) + `)
		ORDER BY published DESC, id DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]Article, 0)
	for rows.Next() {
		var a Article
		var published int64
		var topics string
		err := rows.Scan(&a.ID, &a.URL, &a.Title, &a.Ticker, &a.SourceName, &a.SourceDomain, &published,
			&a.Description, &a.BannerImage, &a.SentimentLabel, &a.SentimentScore, &topics)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		a.Published = time.Unix(published, 0).UTC()
		if a.Topics, err = decodeTopics(topics); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// SentimentCounts counts positive and negative articles for ticker
func (s *SQLiteStore) SentimentCounts(ctx context.Context, ticker string) (SentimentCounts, error) {
	var c SentimentCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN UPPER(sentiment_label) = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN UPPER(sentiment_label) = ? THEN 1 ELSE 0 END), 0)
		FROM articles
		WHERE stock_ticker = ?
	`, LabelPositive, LabelNegative, ticker).Scan(&c.Positive, &c.Negative)
	if err != nil {
		return SentimentCounts{}, fmt.Errorf("failed to count sentiment: %w", err)
	}
	return c, nil
}

// RecordRating stores the day's positive percentage for ticker
func (s *SQLiteStore) RecordRating(ctx context.Context, ticker string, day time.Time) (bool, error) {
	start, end := dayBounds(day)

	var positive, total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN UPPER(sentiment_label) = ? THEN 1 ELSE 0 END), 0), COUNT(*)
		FROM articles
		WHERE stock_ticker = ? AND published >= ? AND published < ?
	`, LabelPositive, ticker, start.Unix(), end.Unix()).Scan(&positive, &total)
	if err != nil {
		return false, fmt.Errorf("failed to count day articles: %w", err)
	}
	if total == 0 {
		return false, nil
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO sentiment_ratings (stock_ticker, date, rating) VALUES (?, ?, ?)
	`, ticker, start.Format(dateLayout), positiveRating(positive, total))
	if err != nil {
		return false, fmt.Errorf("failed to record rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListRatings returns ratings on or after since, oldest first
func (s *SQLiteStore) ListRatings(ctx context.Context, ticker string, since time.Time) ([]Rating, error) {
	start, _ := dayBounds(since)
	rows, err := s.db.QueryContext(ctx, `
		SELECT stock_ticker, date, rating
		FROM sentiment_ratings
		WHERE stock_ticker = ? AND date >= ?
		ORDER BY date ASC
	`, ticker, start.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ratings := make([]Rating, 0)
	for rows.Next() {
		var r Rating
		var date string
		if err := rows.Scan(&r.Ticker, &date, &r.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		if r.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse rating date: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
