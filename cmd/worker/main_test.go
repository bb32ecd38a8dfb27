package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/dsjohal14/sentify/internal/seed"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRatings(t *testing.T) {
	ctx := context.Background()
	store, err := db.NewSQLiteStore(filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = db.Bootstrap(ctx, store, &seed.Data{
		Sectors: []string{"Technology"},
		Companies: []seed.Company{
			{Ticker: "AAPL", Name: "Apple", Sector: "Technology"},
			{Ticker: "MSFT", Name: "Microsoft", Sector: "Technology"},
		},
	})
	require.NoError(t, err)

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, label := range []string{db.LabelPositive, db.LabelNegative} {
		_, err := store.AddArticle(ctx, db.Article{
			URL:            "https://news.test/" + string(rune('a'+i)),
			Title:          "story",
			Ticker:         "AAPL",
			SourceName:     "Test Wire",
			SourceDomain:   "news.test",
			Published:      day,
			SentimentLabel: label,
		})
		require.NoError(t, err)
	}

	n, err := recordRatings(ctx, store, day, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only companies with articles get a rating")

	n, err = recordRatings(ctx, store, day, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a second pass keeps the existing rating")

	ratings, err := store.ListRatings(ctx, "AAPL", day)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, float64(50), ratings[0].Rating)
}

func TestBackfillRatings(t *testing.T) {
	ctx := context.Background()
	store, err := db.NewSQLiteStore(filepath.Join(t.TempDir(), "backfill.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = db.Bootstrap(ctx, store, &seed.Data{
		Sectors:   []string{"Technology"},
		Companies: []seed.Company{{Ticker: "AAPL", Name: "Apple", Sector: "Technology"}},
	})
	require.NoError(t, err)

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	// One article on each of the 8 days before now; the oldest is outside a 7 day backlog
	for back := 1; back <= 8; back++ {
		_, err := store.AddArticle(ctx, db.Article{
			URL:            "https://news.test/day-" + string(rune('0'+back)),
			Title:          "story",
			Ticker:         "AAPL",
			SourceName:     "Test Wire",
			SourceDomain:   "news.test",
			Published:      now.AddDate(0, 0, -back),
			SentimentLabel: db.LabelPositive,
		})
		require.NoError(t, err)
	}

	n, err := backfillRatings(ctx, store, now, 7, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	ratings, err := store.ListRatings(ctx, "AAPL", now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, ratings, 7)
	assert.Equal(t, "2024-05-03", ratings[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-05-09", ratings[6].Date.Format("2006-01-02"))

	n, err = backfillRatings(ctx, store, now, 1, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "yesterday is already recorded")
}
