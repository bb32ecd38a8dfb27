// Package accel provides utilities for accelerated batch processing.
package accel

// Batch represents a batch processing helper
type Batch struct {
	size int
}

// NewBatch creates a new batch processor with the given size
func NewBatch(size int) *Batch {
	if size <= 0 {
		size = 100
	}
	return &Batch{size: size}
}

// Size returns the batch size
func (b *Batch) Size() int {
	return b.size
}

// Each calls fn with consecutive [start, end) windows covering n items.
// It stops at the first error.
func (b *Batch) Each(n int, fn func(start, end int) error) error {
	for start := 0; start < n; start += b.size {
		end := start + b.size
		if end > n {
			end = n
		}
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}
