package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/recruit-tracker/internal/config"
	"github.com/jonathan/recruit-tracker/internal/db"
	"github.com/jonathan/recruit-tracker/internal/server"
	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the dashboard overview, charts, follow-ups
and table editing. When sync_schedule and database_url are configured, the
tables are also mirrored to PostgreSQL on that cron schedule.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, st, err := openStore(ctx, logger)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if len(cfg.Operators) == 0 {
		logger.Warn("no operators configured, nobody will be able to sign in")
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Deps{
		Store:     st,
		Config:    cfg,
		JWT:       jwtConfig,
		Passwords: passwordConfig,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.SyncSchedule != "" {
		stopSync, err := startSyncSchedule(ctx, cfg, st, logger)
		if err != nil {
			return err
		}
		defer stopSync()
	}

	return srv.Start(ctx)
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// startSyncSchedule mirrors the tables to PostgreSQL on cfg.SyncSchedule.
// A run that is still going when the next one fires is skipped.
func startSyncSchedule(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) (func(), error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	database = database.WithLogger(logger)
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	cl := cronLogger{logger: logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(cfg.SyncSchedule, func() {
		if _, err := syncOnce(ctx, database, st); err != nil {
			logger.Error("scheduled sync failed", "error", err)
		}
	}); err != nil {
		database.Close()
		return nil, fmt.Errorf("invalid sync schedule: %w", err)
	}

	c.Start()
	logger.Info("mirror sync scheduled", "schedule", cfg.SyncSchedule)

	return func() {
		<-c.Stop().Done()
		database.Close()
	}, nil
}

// syncOnce loads one snapshot and mirrors it.
func syncOnce(ctx context.Context, database *db.DB, st *store.Store) (*db.SyncResult, error) {
	snap, err := st.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return database.SyncSnapshot(ctx, snap, st.Dir())
}
