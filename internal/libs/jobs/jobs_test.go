package jobs

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestNewQueue(t *testing.T) {
	q := NewQueue()
	if q == nil {
		t.Fatal("NewQueue() returned nil")
	}

	if q.Count() != 0 {
		t.Errorf("new queue should be empty, got %d jobs", q.Count())
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on empty queue should report false")
	}
}

func TestEnqueue(t *testing.T) {
	q := NewQueue()

	job := q.Enqueue(KindNotifyFollowers, "AAPL")

	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("expected UUID job ID, got %q", job.ID)
	}
	if job.Kind != KindNotifyFollowers || job.Ticker != "AAPL" {
		t.Errorf("unexpected job %+v", job)
	}
	if job.Status != StatusPending {
		t.Errorf("expected status pending, got %s", job.Status)
	}
	if q.Count() != 1 {
		t.Errorf("expected 1 job in queue, got %d", q.Count())
	}

	select {
	case <-q.Ready():
	default:
		t.Error("Enqueue() should signal Ready")
	}
}

func TestDequeueOrder(t *testing.T) {
	q := NewQueue()

	q.Enqueue(KindNotifyFollowers, "A")
	q.Enqueue(KindNotifyFollowers, "B")
	q.Enqueue(KindNotifyFollowers, "C")

	if q.Count() != 3 {
		t.Errorf("expected 3 jobs in queue, got %d", q.Count())
	}

	for _, want := range []string{"A", "B", "C"} {
		job, ok := q.Dequeue()
		if !ok {
			t.Fatalf("expected job %s", want)
		}
		if job.Ticker != want {
			t.Errorf("expected %s, got %s", want, job.Ticker)
		}
	}
	if q.Count() != 0 {
		t.Errorf("expected empty queue, got %d", q.Count())
	}
}

func TestConcurrentEnqueue(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Enqueue(KindNotifyFollowers, "AAPL")
		}()
	}
	wg.Wait()

	if q.Count() != 50 {
		t.Errorf("expected 50 jobs, got %d", q.Count())
	}
}
