package cli

import (
	"time"

	"github.com/HendryAvila/clipvault/internal/config"
	"github.com/HendryAvila/clipvault/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdin/stdout and, unless --no-watch is given,
the clipboard detector in the same process.

Add to your MCP client config:

  {
    "mcpServers": {
      "clipvault": { "command": "clipvault", "args": ["serve"] }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, log, err := rootOpts.runtime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			if !noWatch {
				rt.StartDetector(ctx)
			}
			log.Info("serving MCP over stdio", "version", server.Version, "db", rt.Store.Path(), "watch", !noWatch)
			return rt.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "serve queries only, without capturing the clipboard")
	return cmd
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Record clipboard changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, log, err := rootOpts.runtime(cmd, func(cfg *config.Config) {
				if interval > 0 {
					cfg.PollInterval = interval
				}
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt.StartDetector(ctx)
			log.Info("watching clipboard", "db", rt.Store.Path())
			<-ctx.Done()

			closeErr := rt.Close()
			s := rt.Detector.Stats()
			log.Info("watch stopped", "polls", s.Polls, "captures", s.Captures, "failures", s.Failures)
			return closeErr
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default from config)")
	return cmd
}
