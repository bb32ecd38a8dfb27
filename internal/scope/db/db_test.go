package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewInvalidConnection(t *testing.T) {
	ctx := context.Background()

	// Test with invalid connection string
	_, err := New(ctx, "invalid://connection")
	if err == nil {
		t.Error("expected error with invalid connection string, got nil")
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentify.db")

	store, err := Open(context.Background(), "sqlite://"+path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", store)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file at %s: %v", path, err)
	}
}

func TestOpenSQLiteWithoutPath(t *testing.T) {
	if _, err := Open(context.Background(), "sqlite://"); err == nil {
		t.Error("expected error for sqlite URL without a path")
	}
}

func TestBootstrapWithoutSeed(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	seeded, err := Bootstrap(ctx, store, nil)
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if seeded {
		t.Error("nothing should be seeded without seed data")
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("expected empty directory, got %d", n)
	}
}
