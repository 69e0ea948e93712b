package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/app"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/database"
	"github.com/nguyentantai21042004/minutes-flow/internal/interface/rest"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/render"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
	"github.com/nguyentantai21042004/minutes-flow/internal/tracing"
	"github.com/nguyentantai21042004/minutes-flow/internal/watcher"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the audio reaper and the inbox watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")

	return cmd
}

func runServe(configPath string, migrate bool) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Minutes Service")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Summarizer backend: %s", cfg.SLLM.Backend)
	log.Info(ctx, "Configuration loaded successfully")

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	if err := render.Init(cfg.Renderer); err != nil {
		return fmt.Errorf("register font: %w", err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	if migrate {
		if err := database.MigratePostgres(a.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info(ctx, "Database migrated")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 3)

	reaper := storage.NewReaper(a.Store, cfg.Reaper.InitialDelay, cfg.Reaper.Interval, log)
	go func() {
		if err := reaper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("reaper: %w", err)
		}
	}()

	if cfg.Inbox.Enabled {
		if err := os.MkdirAll(cfg.Inbox.Dir, 0755); err != nil {
			return fmt.Errorf("create inbox %s: %w", cfg.Inbox.Dir, err)
		}
		w, err := watcher.New(cfg.Inbox, watcher.NewInboxHandler(a.Pipeline, log), log)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
	}

	e := rest.NewServer(cfg.Server, cfg.Tracing.ServiceName, a.Handler)
	go func() {
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Minutes service is ready!")
	log.Info(ctx, "Listening: %s", cfg.Server.Addr)
	log.Info(ctx, "Audio reaper: first sweep in %s, then every %s", cfg.Reaper.InitialDelay, cfg.Reaper.Interval)
	if cfg.Inbox.Enabled {
		log.Info(ctx, "Inbox: %s", cfg.Inbox.Dir)
	}
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	var runErr error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case runErr = <-errChan:
		log.Error(ctx, "%v", runErr)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}

	log.Info(shutdownCtx, "Minutes service stopped")
	return runErr
}
