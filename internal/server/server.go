// Package server wires all clipvault components and creates the MCP server.
//
// This is the composition root: it creates concrete implementations and
// injects them into the detector, tools, prompts and resources. The Runtime
// it returns is the single process-wide context object; no business logic
// lives here, only wiring and lifecycle.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/HendryAvila/clipvault/internal/clipboard"
	"github.com/HendryAvila/clipvault/internal/cliptools"
	"github.com/HendryAvila/clipvault/internal/config"
	"github.com/HendryAvila/clipvault/internal/detector"
	"github.com/HendryAvila/clipvault/internal/foreground"
	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/HendryAvila/clipvault/internal/prompts"
	"github.com/HendryAvila/clipvault/internal/resources"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options configures New. Zero fields fall back to the system clipboard,
// the platform resolver and slog.Default().
type Options struct {
	Config    config.Config
	Clipboard clipboard.Clipboard
	Resolver  foreground.Resolver
	Logger    *slog.Logger
}

// Runtime owns the store, the shared snapshot (through the detector) and
// the MCP server for the lifetime of the process.
type Runtime struct {
	Store    *history.Store
	Detector *detector.Detector
	MCP      *server.MCPServer

	log *slog.Logger

	mu     sync.Mutex
	handle *detector.Handle
	closed bool
}

// New opens the store, builds the detector and registers every tool,
// resource and prompt. The detector loop is not started; call
// StartDetector. Close must be called on shutdown.
func New(opts Options) (*Runtime, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config

	cb := opts.Clipboard
	if cb == nil {
		sys, err := clipboard.NewSystem()
		if err != nil {
			return nil, fmt.Errorf("server: clipboard: %w", err)
		}
		cb = sys
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = foreground.New(cfg.ResolverTimeout)
	}

	store, err := history.New(history.Config{
		DataDir:      cfg.DataDir,
		DefaultLimit: cfg.ListLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"clipvault",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	det, err := detector.New(detector.Options{
		Clipboard: cb,
		Store:     store,
		Resolver:  resolver,
		Notifier:  mcpNotifier{srv: s},
		Interval:  cfg.PollInterval,
		Logger:    log.With("component", "detector"),
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("server: %w", err)
	}

	// --- Register tools ---

	listTool := cliptools.NewListTool(store)
	s.AddTool(listTool.Definition(), listTool.Handle)

	searchTool := cliptools.NewSearchTool(store)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	sourcesTool := cliptools.NewSourcesTool(store)
	s.AddTool(sourcesTool.Definition(), sourcesTool.Handle)

	selectTool := cliptools.NewSelectTool(store, det)
	s.AddTool(selectTool.Definition(), selectTool.Handle)

	deleteTool := cliptools.NewDeleteTool(store)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	statsTool := cliptools.NewStatsTool(store, det)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Register prompts ---

	recallPrompt := prompts.NewRecallPrompt()
	s.AddPrompt(recallPrompt.Definition(), recallPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store, resources.DefaultRecentLimit)
	s.AddResource(resourceHandler.RecentResource(), resourceHandler.HandleRecent)
	s.AddResource(resourceHandler.SourcesResource(), resourceHandler.HandleSources)

	return &Runtime{Store: store, Detector: det, MCP: s, log: log}, nil
}

// StartDetector seeds the snapshot from the current clipboard and starts
// the polling loop. Calling it again while running is a no-op.
func (r *Runtime) StartDetector(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle != nil || r.closed {
		return
	}
	r.Detector.Seed()
	r.handle = r.Detector.Start(ctx)
}

// ServeStdio serves MCP over in/out until ctx is cancelled or in closes.
// Transport errors go to the runtime logger, never to out.
func (r *Runtime) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(r.MCP)
	stdio.SetErrorLogger(slog.NewLogLogger(r.log.Handler(), slog.LevelError))
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server: stdio: %w", err)
	}
	return nil
}

// Close stops the detector, waiting for it to exit, then closes the
// store. It is safe to call more than once.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.handle != nil {
		r.handle.Stop()
	}
	return r.Store.Close()
}

// mcpNotifier tells subscribed clients that the recent-clips resource
// changed.
type mcpNotifier struct {
	srv *server.MCPServer
}

func (n mcpNotifier) ClipsUpdated(_ context.Context, _ clip.Record) error {
	n.srv.SendNotificationToAllClients("notifications/resources/updated", map[string]any{
		"uri": resources.RecentURI,
	})
	return nil
}

func serverInstructions() string {
	return `You have access to clipvault, the user's clipboard history.

Every piece of text the user copies is recorded together with the
application it was copied from. Identical text is stored once; copying it
again moves it to the top.

## WHEN TO USE IT

- The user refers to something they "copied", "had on the clipboard" or
  "pasted earlier"
- The user wants to get back a command, URL, snippet or message from
  earlier in the day
- The user asks what they copied from a given application

## TOOLS

- clip_list: most recent clips, newest first
- clip_search: case-insensitive substring search, optional exact source filter
- clip_sources: application names to use as the source filter
- clip_select: put a clip back on the clipboard (by identity or literal value)
- clip_delete: forget a clip permanently
- clip_stats: history size, per-source counts, detector activity

Start with detail_level "summary" and only fetch full text for the clips
you actually need. Clipboard contents can be sensitive: do not repeat
secrets back unless the user asks for them.

The resource clips://recent changes whenever a new clip is captured.`
}
