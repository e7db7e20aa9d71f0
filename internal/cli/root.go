// Package cli implements the subly command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/subly-core/internal/config"
	"github.com/dshills/subly-core/internal/logging"
	"github.com/dshills/subly-core/internal/storage"
)

// BuildInfo is stamped at link time
type BuildInfo struct {
	Version   string
	BuildTime string
}

// RootOptions holds global flags and the loaded configuration
type RootOptions struct {
	DBPath  string
	EnvFile string

	Build  BuildInfo
	Config *config.Config
	Logger *slog.Logger

	// platform and homeDir override container discovery in tests
	platform string
	homeDir  string
}

// NewRootCommand creates the root command. Running it without a subcommand
// serves the command bridge.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &RootOptions{Build: build}
	return newRootCommand(opts)
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subly",
		Short:   "Subly application core",
		Long:    "Runs the Subly persistence and window lifecycle core behind a stdio command bridge.",
		Version: opts.Build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("Subly core\nVersion: %s\nBuild Time: %s\nBuild Mode: %s\nSQLite Driver: %s\n",
		opts.Build.Version, opts.Build.BuildTime, storage.BuildMode, storage.DriverName))

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides SUBLY_DB_PATH)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file layered under the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewContainerCommand(opts))
	cmd.AddCommand(NewTrayCommand(opts))

	return cmd
}

// load reads configuration and installs the stderr logger
func (o *RootOptions) load() error {
	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return err
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	o.Config = cfg

	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	o.Logger = logger
	return nil
}
