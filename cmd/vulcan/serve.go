package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vulcanent/vulcanweb/internal/config"
	"github.com/vulcanent/vulcanweb/internal/content"
	"github.com/vulcanent/vulcanweb/internal/db"
	"github.com/vulcanent/vulcanweb/internal/repository"
	"github.com/vulcanent/vulcanweb/internal/server"
	"github.com/vulcanent/vulcanweb/internal/service"
	"github.com/vulcanent/vulcanweb/internal/tasks"
	"github.com/vulcanent/vulcanweb/internal/telemetry"
)

const sweepInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, cfg)
	},
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger.Info("Starting server in %s mode", cfg.Environment)

	shutdownTracing, err := telemetry.Init(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize tracing: %v", err)
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	site, err := content.Load()
	if err != nil {
		logger.Error("Failed to load site content: %v", err)
		return err
	}

	archive, closeArchive, err := openArchive(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		return err
	}
	defer closeArchive()

	if cfg.Mail.Recipient == "" {
		logger.Warn("RECIPIENT_EMAIL is not set, form submissions will fail to send")
	}

	srv, err := server.NewServer(cfg, server.Dependencies{
		Site:    site,
		Mailer:  service.NewMailService(cfg.Mail),
		Archive: archive,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("Failed to create server: %v", err)
		return err
	}

	sweeper := tasks.NewLimiterSweeper(sweepInterval, srv.Limiters()...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })
	return g.Wait()
}

// openArchive connects the submission archive when DATABASE_URL is set
func openArchive(ctx context.Context, cfg *config.Config) (repository.SubmissionRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, submissions will not be archived")
		return repository.NewNoopSubmissionRepository(), func() {}, nil
	}

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}

	logger.Info("Archiving submissions to Postgres")
	return repository.NewSubmissionRepository(database.DB), func() { database.Close() }, nil
}
