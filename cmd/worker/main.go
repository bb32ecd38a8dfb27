// Package main implements the background worker that records daily sentiment ratings.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dsjohal14/sentify/internal/libs/config"
	"github.com/dsjohal14/sentify/internal/libs/obs"
	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const ratingParallelism = 4

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := obs.InitFileLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger := obs.Logger("worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate store")
	}

	logger.Info().
		Dur("interval", cfg.RatingInterval).
		Int("backlog_days", cfg.RatingBacklogDays).
		Msg("worker started")

	ticker := time.NewTicker(cfg.RatingInterval)
	defer ticker.Stop()

	// The first pass fills the backlog, later passes only need yesterday
	days := cfg.RatingBacklogDays
	for {
		if _, err := backfillRatings(ctx, store, time.Now().UTC(), days, logger); err != nil {
			logger.Error().Err(err).Msg("rating pass failed")
		}
		days = 1

		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// backfillRatings records ratings for each of the days before now, oldest first
func backfillRatings(ctx context.Context, store db.Storage, now time.Time, days int, logger zerolog.Logger) (int, error) {
	total := 0
	for back := days; back >= 1; back-- {
		n, err := recordRatings(ctx, store, now.AddDate(0, 0, -back), logger)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// recordRatings stores day's rating for every company and returns how many were new
func recordRatings(ctx context.Context, store db.Storage, day time.Time, logger zerolog.Logger) (int, error) {
	companies, err := store.ListCompanies(ctx)
	if err != nil {
		return 0, err
	}

	var recorded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ratingParallelism)
	for _, c := range companies {
		c := c
		g.Go(func() error {
			ok, err := store.RecordRating(gctx, c.Ticker, day)
			if err != nil {
				return err
			}
			if ok {
				recorded.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(recorded.Load()), err
	}

	logger.Info().
		Str("day", day.Format("2006-01-02")).
		Int("companies", len(companies)).
		Int64("recorded", recorded.Load()).
		Msg("rating pass complete")
	return int(recorded.Load()), nil
}
