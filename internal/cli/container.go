package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/subly-core/internal/docstore"
)

// NewContainerCommand creates the container command for inspecting the
// iCloud document folder from a terminal
func NewContainerCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Inspect the iCloud document folder",
	}

	store := func() *docstore.Store {
		return docstore.New(docstore.Options{Platform: opts.platform, HomeDir: opts.homeDir, Logger: opts.Logger})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "url",
		Short: "Print the folder path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := store().ResolveContainer()
			if !ok {
				return docstore.ErrUnavailable
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), dir)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read <filename>",
		Short: "Print a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, found, err := store().Read(args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s: %w", args[0], errDocumentNotFound)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), contents)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "write <filename> [contents]",
		Short: "Create or replace a document; contents default to stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var contents string
			if len(args) == 2 {
				contents = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				contents = string(data)
			}
			return store().Write(args[0], contents)
		},
	})

	return cmd
}

var errDocumentNotFound = errors.New("document does not exist")
