package accel

import (
	"errors"
	"testing"
)

func TestNewBatch(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected int
	}{
		{"valid size", 50, 50},
		{"zero defaults to 100", 0, 100},
		{"negative defaults to 100", -1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := NewBatch(tt.size)
			if batch.Size() != tt.expected {
				t.Errorf("expected size %d, got %d", tt.expected, batch.Size())
			}
		})
	}
}

func TestEach(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		n        int
		expected [][2]int
	}{
		{"empty", 3, 0, nil},
		{"exact", 2, 4, [][2]int{{0, 2}, {2, 4}}},
		{"remainder", 3, 7, [][2]int{{0, 3}, {3, 6}, {6, 7}}},
		{"smaller than batch", 10, 4, [][2]int{{0, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][2]int
			err := NewBatch(tt.size).Each(tt.n, func(start, end int) error {
				got = append(got, [2]int{start, end})
				return nil
			})
			if err != nil {
				t.Fatalf("Each() failed: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d windows, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("window %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestEachStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := NewBatch(1).Each(5, func(_, _ int) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
