// Package main implements crtv, the operator CLI for creatived.
//
// Most commands open the configured database directly; health queries a
// running daemon over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/creatived/internal/config"
	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/services"
)

var (
	// configPath overrides ~/.config/creatived/config.yaml
	configPath string
	// serverURL is the base URL for the creatived HTTP server
	serverURL string
	verbose   bool
	version   = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "crtv",
		Short: "Operator CLI for creatived",
		Long: `crtv analyzes creative assets, manages the campaign database and checks
the health of a running creatived server.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/creatived/config.yaml)")
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9090", "creatived server URL")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stdout")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newPopulateCmd())
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newHealthCmd())
	return root
}

// openRegistry loads configuration and wires the services the local
// commands share. Logs are discarded unless --verbose is set so stdout
// stays parseable.
func openRegistry(ctx context.Context) (services.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewNop()
	if verbose {
		cfg.Logging.Format = "console"
		cfg.Logging.Level = zapcore.DebugLevel
		if logger, err = logging.NewLogger(&cfg.Logging, nil); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	return services.Build(ctx, cfg, services.Options{Logger: logger})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
