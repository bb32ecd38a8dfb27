package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Notifier is the slice of storage the dispatcher needs
type Notifier interface {
	Followers(ctx context.Context, ticker string) ([]int64, error)
	AddNotification(ctx context.Context, userID int64, message string) (db.Notification, error)
}

// Publisher pushes a stored notification to the user's live connections
type Publisher interface {
	Publish(userID int64, n db.Notification) int
}

// Dispatcher drains a Queue and runs each job
type Dispatcher struct {
	queue     *Queue
	store     Notifier
	publisher Publisher
	logger    zerolog.Logger
	parallel  int
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithPublisher pushes every notification the dispatcher stores
func WithPublisher(p Publisher) DispatcherOption {
	return func(d *Dispatcher) { d.publisher = p }
}

// NewDispatcher creates a dispatcher. parallel bounds the per-job fan-out; <= 0 means 8.
func NewDispatcher(queue *Queue, store Notifier, logger zerolog.Logger, parallel int, opts ...DispatcherOption) *Dispatcher {
	if parallel <= 0 {
		parallel = 8
	}
	d := &Dispatcher{queue: queue, store: store, logger: logger, parallel: parallel}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewArticlesMessage is the inbox text for followers of ticker
func NewArticlesMessage(ticker string) string {
	return fmt.Sprintf("New articles available for %s!", strings.ToUpper(ticker))
}

// Run processes jobs until ctx is cancelled
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		d.Drain(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.queue.Ready():
		}
	}
}

// Drain processes every queued job and returns how many ran
func (d *Dispatcher) Drain(ctx context.Context) int {
	n := 0
	for ctx.Err() == nil {
		job, ok := d.queue.Dequeue()
		if !ok {
			break
		}
		job = d.Process(ctx, job)
		n++
		d.logger.Debug().
			Str("job_id", job.ID).
			Str("kind", job.Kind).
			Str("ticker", job.Ticker).
			Str("status", job.Status).
			Msg("job finished")
	}
	return n
}

// Process runs a single job and returns it with its final status
func (d *Dispatcher) Process(ctx context.Context, job Job) Job {
	var err error
	switch job.Kind {
	case KindNotifyFollowers:
		_, err = d.NotifyFollowers(ctx, job.Ticker)
	default:
		err = fmt.Errorf("unknown job kind %q", job.Kind)
	}

	if err != nil {
		job.Status = StatusFailed
		d.logger.Error().Err(err).Str("job_id", job.ID).Str("kind", job.Kind).Msg("job failed")
		return job
	}
	job.Status = StatusDone
	return job
}

// NotifyFollowers adds a new-articles notification to every follower of ticker
// and publishes each stored notification when a Publisher is set.
func (d *Dispatcher) NotifyFollowers(ctx context.Context, ticker string) (int, error) {
	users, err := d.store.Followers(ctx, ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to list followers: %w", err)
	}

	message := NewArticlesMessage(ticker)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallel)
	for _, userID := range users {
		userID := userID
		g.Go(func() error {
			n, err := d.store.AddNotification(gctx, userID, message)
			if err != nil {
				return fmt.Errorf("failed to notify user %d: %w", userID, err)
			}
			if d.publisher != nil {
				d.publisher.Publish(userID, n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	d.logger.Info().Str("ticker", ticker).Int("followers", len(users)).Msg("followers notified")
	return len(users), nil
}
