// Package main implements the HTTP API server for Sentify.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/dsjohal14/sentify/internal/http"
	"github.com/dsjohal14/sentify/internal/libs/config"
	"github.com/dsjohal14/sentify/internal/libs/jobs"
	"github.com/dsjohal14/sentify/internal/libs/obs"
	"github.com/dsjohal14/sentify/internal/libs/push"
	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/dsjohal14/sentify/internal/scope/search"
	"github.com/dsjohal14/sentify/internal/seed"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	if err := obs.InitFileLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger := obs.Logger("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := initStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer func() { _ = store.Close() }()

	snapshot, err := db.NewSnapshot(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize directory snapshot")
	}

	index := search.NewIndex(search.WithMaxResults(cfg.SearchMaxResults))
	queue := jobs.NewQueue()
	hub := push.NewHub()

	// Create HTTP handler
	handler := apihttp.NewHandler(store, index, logger,
		apihttp.WithSnapshot(snapshot),
		apihttp.WithQueue(queue),
		apihttp.WithHub(hub),
		apihttp.WithAttempts(cfg.DirectoryAttempts, 200*time.Millisecond),
	)

	// Setup router
	r := setupRouter(handler, logger)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Addr()).Msg("failed to listen")
	}
	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	dispatcher := jobs.NewDispatcher(queue, store, obs.Logger("jobs"), 8, jobs.WithPublisher(hub))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr()).Msg("starting API server")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := dispatcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	// Searches before the first refresh finishes see an empty directory
	go func() {
		n, err := handler.RefreshIndex(gctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to load company directory")
			return
		}
		logger.Info().Int("companies", n).Msg("company directory loaded")
	}()

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func setupRouter(h *apihttp.Handler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// Routes
	h.Routes(r)

	return r
}

// initStore opens storage, migrates it and seeds the default directory when empty
func initStore(ctx context.Context, url string, logger zerolog.Logger) (db.Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := db.Open(ctx, url)
	if err != nil {
		return nil, err
	}

	data, err := seed.Default()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	seeded, err := db.Bootstrap(ctx, store, data)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	n, err := store.Count(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info().Bool("seeded", seeded).Int("companies", n).Msg("store initialized")
	return store, nil
}
