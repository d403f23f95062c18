package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete IDENTITY...",
		Short: "Forget clips permanently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			f := rootOpts.formatter(cmd)
			var deleted []string
			for _, id := range args {
				err := store.Delete(id)
				if errors.Is(err, history.ErrNotFound) {
					return WrapExitError(ExitCommandError, "no clip with identity "+id, err)
				}
				if err != nil {
					return WrapExitError(ExitFailure, "deleting clip", err)
				}
				deleted = append(deleted, id)
				if !f.JSON() {
					fmt.Fprintf(f.Writer, "Forgot %s\n", id)
				}
			}
			if f.JSON() {
				return f.Success(map[string]any{"deleted": deleted})
			}
			return nil
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the whole history as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.Export()
			if err != nil {
				return WrapExitError(ExitFailure, "exporting", err)
			}
			raw, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return WrapExitError(ExitFailure, "encoding export", err)
			}
			raw = append(raw, '\n')

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			if err := os.WriteFile(output, raw, 0o600); err != nil {
				return WrapExitError(ExitFailure, "writing export", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d clips to %s\n", len(data.Clips), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load clips from an export (\"-\" reads stdin)",
		Long: `Load clips from a JSON export. A clip already stored with a newer
capture time keeps it; blank clips are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "reading import", err)
			}

			var data history.ExportData
			if err := json.Unmarshal(raw, &data); err != nil {
				return WrapExitError(ExitCommandError, "parsing import", err)
			}

			store, err := rootOpts.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.Import(&data)
			if err != nil {
				return WrapExitError(ExitFailure, "importing", err)
			}

			f := rootOpts.formatter(cmd)
			if f.JSON() {
				return f.Success(res)
			}
			fmt.Fprintf(f.Writer, "Imported %d clips (%d already newer, %d blank skipped)\n",
				res.Applied, res.Stale, res.Skipped)
			return nil
		},
	}
}
