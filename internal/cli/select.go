package cli

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/HendryAvila/clipvault/internal/picker"
	"github.com/HendryAvila/clipvault/internal/server"
	"github.com/spf13/cobra"
)

// pickLimit bounds how many matches the picker holds at once.
const pickLimit = 200

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "select [VALUE]",
		Short: "Put a clip back on the clipboard",
		Long: `Put VALUE, or the stored clip with --id, on the system clipboard and
move it to the top of the history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 1 {
				value = args[0]
			}
			if (value == "") == (identity == "") {
				return NewExitError(ExitCommandError, "pass either VALUE or --id")
			}

			rt, _, err := rootOpts.runtime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if identity != "" {
				rec, err := rt.Store.Get(identity)
				if errors.Is(err, history.ErrNotFound) {
					return WrapExitError(ExitCommandError, "no clip with identity "+identity, err)
				}
				if err != nil {
					return WrapExitError(ExitFailure, "looking up clip", err)
				}
				value = rec.Value
			}
			if clip.IsBlank(value) {
				return NewExitError(ExitCommandError, "VALUE must not be blank")
			}
			return writeBack(cmd, rootOpts, rt, value)
		},
	}

	cmd.Flags().StringVar(&identity, "id", "", "identity of a stored clip")
	return cmd
}

// NewPickCommand creates the interactive pick command.
func NewPickCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Search interactively and copy the chosen clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := rootOpts.runtime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			search := func(term string) ([]clip.Record, error) {
				return rt.Store.Search(term, history.SearchOptions{Limit: pickLimit})
			}
			rec, ok, err := picker.Run(search, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return WrapExitError(ExitFailure, "running picker", err)
			}
			if !ok {
				return nil
			}
			return writeBack(cmd, rootOpts, rt, rec.Value)
		},
	}
}

// writeBack seeds the snapshot from the live clipboard, so re-selecting the
// current text is a no-op, then writes value back.
func writeBack(cmd *cobra.Command, rootOpts *RootOptions, rt *server.Runtime, value string) error {
	rt.Detector.Seed()
	if err := rt.Detector.WriteBack(cmd.Context(), value); err != nil {
		return WrapExitError(ExitFailure, "copying clip", err)
	}

	f := rootOpts.formatter(cmd)
	id := clip.Identity(value)
	if f.JSON() {
		return f.Success(map[string]string{"identity": id})
	}
	fmt.Fprintf(f.Writer, "Copied %s: %s\n", id, clip.Preview(value, 60))
	return nil
}
