// Package main implements the Sentify CLI for interacting with the system via command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dsjohal14/sentify/internal/directory"
	"github.com/dsjohal14/sentify/internal/libs/config"
	"github.com/dsjohal14/sentify/internal/libs/obs"
	"github.com/dsjohal14/sentify/internal/render"
	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/dsjohal14/sentify/internal/scope/search"
	"github.com/dsjohal14/sentify/internal/seed"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sentify",
		Short:        "Sentify CLI",
		SilenceUsage: true,
	}
	root.AddCommand(newSearchCmd(), newSeedCmd(), newCompaniesCmd(), newMigrateCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	obs.InitLogger(cfg.LogLevel)
	return cfg, nil
}

func newSearchCmd() *cobra.Command {
	var (
		baseURL string
		html    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Load the company directory from the API and run a search box query",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = cfg.DirectoryURL
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			idx := search.NewIndex(search.WithMaxResults(cfg.SearchMaxResults))
			select {
			case <-directory.NewLoader(baseURL, obs.Logger("cli")).Start(ctx, idx):
			case <-ctx.Done():
				return fmt.Errorf("directory load from %s: %w", baseURL, ctx.Err())
			}

			result := idx.Search(strings.Join(args, " "))
			if html {
				return render.Results(cmd.OutOrStdout(), result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "API base URL (defaults to DIRECTORY_URL)")
	cmd.Flags().BoolVar(&html, "html", false, "print the rendered results container")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "directory fetch timeout")
	return cmd
}

func printResult(w io.Writer, result search.QueryResult) error {
	if _, err := fmt.Fprintf(w, "state: %s\n", result.State); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range result.Companies {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", c.Ticker, c.Name)
	}
	return tw.Flush()
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sectors and companies into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := seedData(file)
			if err != nil {
				return err
			}

			return withStore(cmd.Context(), cfg, func(ctx context.Context, store db.Storage) error {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				if err := store.Seed(ctx, data); err != nil {
					return err
				}
				n, err := store.Count(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d sectors, %d companies (%d in directory)\n",
					len(data.Sectors), len(data.Companies), n)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (defaults to the built-in directory)")
	return cmd
}

func seedData(file string) (*seed.Data, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.LoadFile(file)
}

func newCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List the company directory stored in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return withStore(cmd.Context(), cfg, func(ctx context.Context, store db.Storage) error {
				companies, err := store.ListCompanies(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, c := range companies {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Ticker, c.Name, c.Sector)
				}
				return tw.Flush()
			})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return withStore(cmd.Context(), cfg, func(ctx context.Context, store db.Storage) error {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return err
			})
		},
	}
}

func withStore(ctx context.Context, cfg *config.Config, fn func(ctx context.Context, store db.Storage) error) error {
	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(ctx, store)
}
