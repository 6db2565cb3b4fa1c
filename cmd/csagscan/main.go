// Command csagscan walks an archive of CSAG station files, parses each one,
// and reports aggregate results through logs, an optional JSON index, and the
// ops HTTP endpoints. With SCAN_INTERVAL set it keeps rescanning; otherwise it
// performs one scan and exits.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/csag-station-reader/internal/adapter/http"
	"github.com/couchcryptid/csag-station-reader/internal/archive"
	"github.com/couchcryptid/csag-station-reader/internal/config"
	"github.com/couchcryptid/csag-station-reader/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	scanner := archive.New(cfg.ArchiveDir, archive.Options{
		Interval:   cfg.ScanInterval,
		Permissive: cfg.Permissive,
		IndexPath:  cfg.IndexPath,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, scanner, scanner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the ops HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the scanner; stop the service once a one-shot scan finishes.
	scanErr := make(chan error, 1)
	go func() {
		scanErr <- scanner.Run(ctx)
		stop()
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	if err := <-scanErr; err != nil {
		logger.Error("scan error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
