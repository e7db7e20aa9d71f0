package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dshills/subly-core/internal/lifecycle"
)

// NewTrayCommand creates the tray command, which prints the tray menu the
// host installs
func NewTrayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Print the tray menu definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := opts.platform
			if platform == "" {
				platform = runtime.GOOS
			}
			if !lifecycle.HasTray(platform) {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "no tray on %s\n", platform)
				return err
			}
			_, err := io.WriteString(cmd.OutOrStdout(), lifecycle.TrayMenu().Render())
			return err
		},
	}
}
