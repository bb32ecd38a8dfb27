package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func setEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(dir, "cli.db"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestMigrateSeedCompanies(t *testing.T) {
	setEnv(t)

	assert.Contains(t, runCLI(t, "migrate"), "schema up to date")
	assert.Contains(t, runCLI(t, "seed"), "companies")

	out := runCLI(t, "companies")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "Apple")
}

func TestSeedFromFile(t *testing.T) {
	dir := setEnv(t)

	file := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
sectors: [Energy]
companies:
  - {ticker: XOM, name: Exxon Mobil, sector: Energy}
`), 0o644))

	assert.Contains(t, runCLI(t, "seed", "--file", file), "seeded 1 sectors, 1 companies (1 in directory)")
	assert.Contains(t, runCLI(t, "companies"), "Exxon Mobil")
}

func TestSearch(t *testing.T) {
	setEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"stock_ticker":"AAPL","company_name":"Apple Inc"},
			{"stock_ticker":"GOOGL","company_name":"Alphabet Inc"}
		]`))
	}))
	defer srv.Close()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"populated", []string{"search", "--url", srv.URL, "al"}, []string{"state: populated", "GOOGL", "Alphabet Inc"}},
		{"empty", []string{"search", "--url", srv.URL, "zzz"}, []string{"state: empty"}},
		{"hidden", []string{"search", "--url", srv.URL}, []string{"state: hidden"}},
		{"html", []string{"search", "--url", srv.URL, "--html", "apple"}, []string{`href="/companies/AAPL"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runCLI(t, tt.args...)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestSearchDirectoryDown(t *testing.T) {
	setEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Loader failures degrade to an empty directory rather than failing the command
	assert.Contains(t, runCLI(t, "search", "--url", srv.URL, "apple"), "state: empty")
}
