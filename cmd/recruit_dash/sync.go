package main

import (
	"fmt"
	"time"

	"github.com/jonathan/recruit-tracker/internal/db"
	"github.com/jonathan/recruit-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var syncStatus bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the tables to PostgreSQL",
	Long:  "Copies the current candidates, interviews and clients into the PostgreSQL mirror named by DATABASE_URL, replacing the previous copy.",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncStatus, "status", false, "Show the latest sync run instead of syncing")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := cmd.Context()

	cfg, st, err := openStore(ctx, logger)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or database_url config is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	database = database.WithLogger(logger)

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if syncStatus {
		run, err := database.LatestSyncRun(ctx)
		if err != nil {
			return err
		}
		if run == nil {
			_, _ = fmt.Fprintln(out, "No sync has run yet")
			return nil
		}
		_, _ = fmt.Fprintf(out, "Last sync %s at %s from %s: %d candidates, %d interviews, %d clients\n",
			run.ID, run.CreatedAt.Format(time.RFC3339), run.Source, run.Candidates, run.Interviews, run.Clients)
		return nil
	}

	result, err := syncOnce(ctx, database, st)
	if err != nil {
		return err
	}
	observability.NewPrinter(out).PrintSyncResult(result)
	return nil
}
