// Creatived is the campaign creative analysis daemon.
//
// It serves the HTTP API over the campaign store, classifying uploaded
// assets with the configured language model and publishing completion
// events to NATS when a broker is configured.
//
// Configuration is read from ~/.config/creatived/config.yaml and
// CREATIVED_* environment variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults (SQLite in the working directory)
//	creatived
//
//	# Configure via environment
//	CREATIVED_SERVER_PORT=8080 CREATIVED_DATABASE_DRIVER=postgres \
//	  CREATIVED_DATABASE_DSN=postgres://localhost/creatived creatived
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/config"
	"github.com/fyrsmithlabs/creatived/internal/http"
	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/services"
	"github.com/fyrsmithlabs/creatived/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/creatived/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  creatived           Start the creatived daemon\n")
			fmt.Fprintf(os.Stderr, "  creatived version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	fmt.Printf("creatived by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the daemon and blocks until ctx is cancelled, then shuts the
// HTTP server down within the configured timeout.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	cfg.Telemetry.ServiceVersion = version
	tel, err := telemetry.New(ctx, &cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger, err := logging.NewLogger(&cfg.Logging, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.String("error", h.Error))
	}

	logger.Info(ctx, "starting creatived",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Address()),
		zap.String("database", cfg.Database.Driver),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	reg, err := services.Build(ctx, cfg, services.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close services", zap.Error(err))
		}
	}()

	// Schema creation is idempotent; a failure leaves the API up so
	// POST /api/health can retry it.
	if err := reg.Campaign().InitSchema(ctx); err != nil {
		logger.Error(ctx, "schema initialization failed", zap.Error(err))
	}

	srv, err := http.NewServer(reg.Campaign(), logger.Named("http"), &http.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		BodyLimit: cfg.Server.BodyLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http shutdown failed", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "telemetry shutdown failed", zap.Error(err))
	}

	logger.Info(shutdownCtx, "server shutdown complete")
	return nil
}
