// Package cli implements the clipvault command line.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/HendryAvila/clipvault/internal/clipboard"
	"github.com/HendryAvila/clipvault/internal/config"
	"github.com/HendryAvila/clipvault/internal/foreground"
	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/HendryAvila/clipvault/internal/server"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool

	// Clipboard and Resolver replace the system implementations when set.
	Clipboard clipboard.Clipboard
	Resolver  foreground.Resolver
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the clipvault CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{})
}

// NewRootCommandWith creates the root command around existing options.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clipvault",
		Short: "clipvault - searchable clipboard history",
		Long: `clipvault records every text you copy, together with the application
it came from, and lets you list, search and re-copy it from the terminal or
from any MCP client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ~/.config/clipvault/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewSourcesCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewPickCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// env loads the config and builds the stderr logger for one command.
func (o *RootOptions) env(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.NewLogger(cmd.ErrOrStderr()), nil
}

// openStore opens the history store only, for commands that never touch
// the clipboard.
func (o *RootOptions) openStore(cmd *cobra.Command) (*history.Store, error) {
	cfg, _, err := o.env(cmd)
	if err != nil {
		return nil, err
	}
	store, err := history.New(history.Config{DataDir: cfg.DataDir, DefaultLimit: cfg.ListLimit})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening history", err)
	}
	return store, nil
}

// runtime builds the full runtime: store, clipboard, detector and MCP
// server. Overrides adjust the loaded config, for command-line flags.
func (o *RootOptions) runtime(cmd *cobra.Command, overrides ...func(*config.Config)) (*server.Runtime, *slog.Logger, error) {
	cfg, log, err := o.env(cmd)
	if err != nil {
		return nil, nil, err
	}
	for _, fn := range overrides {
		fn(&cfg)
	}
	rt, err := server.New(server.Options{
		Config:    cfg,
		Clipboard: o.Clipboard,
		Resolver:  o.Resolver,
		Logger:    log,
	})
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "starting clipvault", err)
	}
	return rt, log, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
