package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/driveatlas/drive-mirror/internal/config"
	"github.com/driveatlas/drive-mirror/internal/engine"
	"github.com/driveatlas/drive-mirror/internal/logging"
	"github.com/driveatlas/drive-mirror/internal/mirror"
	"github.com/driveatlas/drive-mirror/internal/remote"
	"github.com/driveatlas/drive-mirror/internal/scheduler"
	"github.com/driveatlas/drive-mirror/internal/server"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.IsProduction())
	logger.Info("drive-mirror starting",
		slog.String("version", Version),
		slog.String("project", cfg.ProjectID),
		slog.String("database", cfg.Database),
		slog.Bool("scheduler", cfg.EnableScheduler),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := remote.NewService(ctx, cfg.CredentialsFile, cfg.ImpersonateSubject)
	if err != nil {
		return fmt.Errorf("creating drive service: %w", err)
	}

	reader := remote.NewReader(svc, logger, remote.ReaderOptions{
		PageDelay:  cfg.PageDelay,
		MaxRetries: cfg.PageMaxRetries,
	})

	store, err := mirror.NewStore(ctx, cfg.ProjectID, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connecting to mirror: %w", err)
	}
	defer store.Close()

	eng := engine.New(reader, store, logger, engine.Options{
		DriveDelay: cfg.DriveDelay,
		KeepRuns:   cfg.KeepRuns,
	})

	mux := server.NewMux(server.MuxConfig{
		Engine:      eng,
		Remote:      reader,
		Store:       store,
		Logger:      logger,
		SyncTimeout: cfg.SyncTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runHTTP(gctx, cfg.ListenAddr, mux, logger)
	})

	if cfg.EnableScheduler {
		sched := scheduler.New(eng, cfg.SyncInterval, cfg.SyncTimeout, logger)

		g.Go(func() error {
			if err := sched.Run(gctx); err != nil && !isShutdown(err) {
				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil && !isShutdown(err) {
		return err
	}

	logger.Info("drive-mirror stopped")

	return nil
}

// runHTTP serves the API until the context is cancelled, then drains
// in-flight requests.
func runHTTP(ctx context.Context, addr string, mux *http.ServeMux, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		// No write timeout: sync triggers run synchronously and are
		// bounded by SYNC_TIMEOUT instead.
		IdleTimeout: 120 * time.Second,
	}

	logger.Info("starting HTTP server", slog.String("listen", addr))

	go func() {
		<-ctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown", slog.String("error", err.Error()))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
