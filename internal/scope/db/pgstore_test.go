package db

import (
	"context"
	"os"
	"testing"
)

// TestPGStorage runs the storage suite against a real Postgres.
// Set TEST_DATABASE_URL to a disposable database to enable it.
func TestPGStorage(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	runStorageSuite(t, func(t *testing.T) Storage {
		ctx := context.Background()
		conn, err := New(ctx, url)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		store := NewPGStore(conn.Pool())
		t.Cleanup(func() { _ = store.Close() })

		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("Migrate failed: %v", err)
		}
		_, err = conn.Pool().Exec(ctx, `
			TRUNCATE sentiment_ratings, articles, notifications, follows, companies, sectors
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			t.Fatalf("failed to reset tables: %v", err)
		}
		return store
	})
}
