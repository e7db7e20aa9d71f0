package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/subly-core/internal/app"
	"github.com/dshills/subly-core/internal/mcp"
)

// NewServeCommand creates the serve command
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the application core and the stdio command bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := opts.Logger
	logger.Info("subly core starting", "version", opts.Build.Version, "db", opts.Config.DBPath)

	a, err := app.Bootstrap(ctx, app.Options{
		DBPath:   opts.Config.DBPath,
		Version:  opts.Build.Version,
		Platform: opts.platform,
		HomeDir:  opts.homeDir,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	srv := mcp.NewServer(a, logger)
	if _, err := a.RecordLaunch(ctx, srv.Host()); err != nil {
		return fmt.Errorf("launch record: %w", err)
	}

	logger.Info("command bridge listening on stdio")
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("command bridge: %w", err)
	}
	logger.Info("subly core stopped")
	return nil
}
