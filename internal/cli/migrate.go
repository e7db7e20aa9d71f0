package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/subly-core/internal/storage"
)

// NewMigrateCommand creates the migrate command and its status subcommand
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewSQLiteStorage(cmd.Context(), opts.Config.DBPath, storage.DefaultRegistry())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			status, err := store.MigrationStatus(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), opts.Config.DBPath, status)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations without applying them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := storage.ReadMigrationStatus(cmd.Context(), opts.Config.DBPath, storage.DefaultRegistry())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), opts.Config.DBPath, status)
			return nil
		},
	})

	return cmd
}

func printStatus(w io.Writer, dbPath string, status []storage.MigrationStatus) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	_, _ = cyan.Fprintf(w, "Database: %s\n", dbPath)

	pending := 0
	for _, m := range status {
		if m.Applied {
			_, _ = green.Fprintf(w, "  [applied] ")
			_, _ = fmt.Fprintf(w, "%3d  %s  (%s)\n", m.Version, m.Description, m.AppliedAt.Format("2006-01-02 15:04:05"))
			continue
		}
		pending++
		_, _ = yellow.Fprintf(w, "  [pending] ")
		_, _ = fmt.Fprintf(w, "%3d  %s\n", m.Version, m.Description)
	}

	if pending == 0 {
		_, _ = green.Fprintln(w, "Schema is up to date")
		return
	}
	_, _ = yellow.Fprintf(w, "%d migration(s) pending\n", pending)
}
