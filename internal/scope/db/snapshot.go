package db

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const snapshotFile = "companies.jsonl"

// Snapshot keeps the last directory served on disk as JSONL, one company per line.
// The API falls back to it when the database cannot be read.
type Snapshot struct {
	path string
	mu   sync.RWMutex
}

// NewSnapshot creates a snapshot in the given data directory
func NewSnapshot(dataDir string) (*Snapshot, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Snapshot{path: filepath.Join(dataDir, snapshotFile)}, nil
}

// Path returns the snapshot file location
func (s *Snapshot) Path() string {
	return s.path
}

// Save replaces the snapshot with companies
func (s *Snapshot) Save(companies []Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	w := bufio.NewWriter(f)
	encoder := json.NewEncoder(w)
	for i := range companies {
		if err := encoder.Encode(companies[i]); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to encode company %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	// Readers never see a half-written file
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file yields an error satisfying os.IsNotExist.
func (s *Snapshot) Load() ([]Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	companies := make([]Company, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var c Company
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			return nil, fmt.Errorf("failed to decode company: %w", err)
		}
		companies = append(companies, c)
	}

	return companies, scanner.Err()
}
