package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/roster/internal/seed"
	"github.com/okian/roster/pkg/logger"
)

// Default configuration constants.
const (
	defaultCount       = 500
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultNeighbors   = 3
	defaultProbes      = 20
	defaultRunDeadline = 10 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &seed.Config{}
	var logLevel string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a running roster API with generated servers and verify its reports",
		Example: `  seed --url http://localhost:9080 --count 2000
  seed --count 50 --neighbors 5 --verbose`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, defaultRunDeadline)
			defer cancel()

			_, err := seed.Run(ctx, cfg)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	flags.IntVar(&cfg.Count, "count", defaultCount, "number of servers to generate")
	flags.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "number of concurrent submitters")
	flags.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.IntVar(&cfg.Neighbors, "neighbors", defaultNeighbors, "k for similarity checks")
	flags.IntVar(&cfg.Probes, "probes", defaultProbes, "number of similarity queries to verify")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "log every failed request")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}
