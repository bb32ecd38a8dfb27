// Package jobs provides background job queue management and async task processing.
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job kinds
const (
	KindNotifyFollowers = "notify_followers"
)

// Job statuses
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Job represents a background job
type Job struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Ticker    string    `json:"ticker"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue manages background jobs in FIFO order. Safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	jobs  []Job
	ready chan struct{}
}

// NewQueue creates a new job queue
func NewQueue() *Queue {
	return &Queue{
		jobs:  make([]Job, 0),
		ready: make(chan struct{}, 1),
	}
}

// Enqueue adds a job to the queue and returns a copy of it
func (q *Queue) Enqueue(kind, ticker string) Job {
	job := Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Ticker:    ticker,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	// Wake the dispatcher without blocking if a wakeup is already pending
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return job
}

// Dequeue removes and returns the oldest job
func (q *Queue) Dequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return Job{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// Ready is signalled after Enqueue
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Count returns the number of jobs in the queue
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
