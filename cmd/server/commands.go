package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/cache"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/config"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/jobs"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage/sqlite"
)

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the background worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			app := fx.New(
				fx.WithLogger(func() fxevent.Logger {
					return &fxevent.SlogLogger{Logger: slog.Default().With("component", "fx")}
				}),
				appModule(cfg),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func migrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := sqlite.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := sqlite.Migrate(db)
			if err != nil {
				return err
			}
			if result.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s to version %d.\n", cfg.Database.Path, result.Version)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date at version %d.\n", cfg.Database.Path, result.Version)
			}
			return nil
		},
	}
}

func ratesCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage the exchange-rate cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Fetch exchange rates now and replace the cached table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := cache.New(ctx, cfg.Redis.URL)
			if err != nil {
				return err
			}
			defer c.Close()

			rates := newRates(cfg, c).Refresh(ctx)
			if rates.Fallback {
				return fmt.Errorf("rates: fetch from %s failed, fallback table not cached", cfg.Rates.APIURL)
			}
			codes := make([]string, 0, len(rates.Values))
			for code := range rates.Values {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.4f\n", code, rates.Values[code])
			}
			return nil
		},
	})
	return cmd
}

func storageCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Maintain uploaded files",
	}
	var minAge time.Duration
	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Delete stored files that no document or maintenance request references",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()
			files, err := openFiles(cfg)
			if err != nil {
				return err
			}
			defer files.Close()

			removed, err := files.Reconcile(ctx, time.Now().Add(-minAge), store.ReferencedObjectKeys)
			for _, key := range removed {
				fmt.Fprintln(cmd.OutOrStdout(), "removed", key)
			}
			if err != nil {
				return err
			}
			slog.Info("Storage reconciled", "min_age", minAge, "removed", len(removed))
			return nil
		},
	}
	reconcile.Flags().DurationVar(&minAge, "min-age", time.Hour, "only remove files older than this")
	cmd.AddCommand(reconcile)
	return cmd
}

func jobsCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Schedule background work",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "fanout",
		Short: "Queue one scraping job per utility provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return fanOut(cmd.Context(), cfg, func(scheduled []string) {
				for _, id := range scheduled {
					fmt.Fprintln(cmd.OutOrStdout(), "scheduled", id)
				}
			})
		},
	})
	return cmd
}

func fanOut(ctx context.Context, cfg *config.Config, report func([]string)) error {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	q, err := newQueue(cfg)
	if err != nil {
		return err
	}
	defer q.Close()

	runner := jobs.NewRunner(store, q, newMailer(cfg), cfg.Jobs.ScrapeSuccessRatio)
	scheduled, err := runner.FanOut(ctx)
	ids := make([]string, 0, len(scheduled))
	for _, job := range scheduled {
		ids = append(ids, job.ID)
	}
	report(ids)
	return err
}
