// clipvault: searchable clipboard history with an MCP server.
//
// Usage:
//
//	clipvault serve    # MCP server (stdio) + clipboard detector
//	clipvault watch    # clipboard detector only
//	clipvault search   # one-shot queries: list, search, sources, stats
//	clipvault pick     # interactive search, copies the chosen clip
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/clipvault/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		// stdout may carry the MCP transport; errors always go to stderr.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
