package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	app "github.com/okian/roster/internal/app"
	"github.com/okian/roster/internal/config"
	"github.com/okian/roster/pkg/logger"
)

// cli carries state shared by every subcommand.
type cli struct {
	dataFile string
	logLevel string
	output   string

	svc *app.Service
	out io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "rosterctl",
		Short: "Manage the public servant roster",
		Long: `Manage the public servant roster stored in a JSON file.

Available subcommands:
  add           - Add or replace a server
  alphabetical  - List names in alphabetical order
  service-time  - List servers by time in service, longest first
  compensation  - List name, role and compensation
  similar       - Find the servers closest to one by absenteeism,
                  performance and compensation`,
		SilenceUsage:      true,
		PersistentPreRunE: c.start,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.svc != nil {
				c.svc.Stop()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataFile, "data", "", "roster file (default from ROSTER_DATA_FILE or servers.json)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVarP(&c.output, "output", "o", "table", "output format: table or json")

	root.AddCommand(
		c.newAddCmd(),
		c.newAlphabeticalCmd(),
		c.newServiceTimeCmd(),
		c.newCompensationCmd(),
		c.newSimilarCmd(),
	)
	return root
}

// start loads configuration and opens the roster before a subcommand runs.
func (c *cli) start(cmd *cobra.Command, _ []string) error {
	if c.output != "table" && c.output != "json" {
		return fmt.Errorf("unknown output format %q", c.output)
	}
	if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
		return err
	}
	if err := logger.SetLevelString(c.logLevel); err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataFile = c.dataFile
	}

	c.out = cmd.OutOrStdout()
	c.svc = app.New(
		app.WithLogger(logger.Named("rosterctl")),
		app.WithDataFile(cfg.DataFile),
		app.WithDefaultNeighbors(cfg.DefaultNeighbors),
		app.WithMaxNeighbors(cfg.MaxNeighbors),
	)
	return c.svc.Start(ctx)
}
