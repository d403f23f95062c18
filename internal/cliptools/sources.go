package cliptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// SourcesTool handles the clip_sources MCP tool.
type SourcesTool struct {
	store *history.Store
}

// NewSourcesTool creates a SourcesTool.
func NewSourcesTool(store *history.Store) *SourcesTool {
	return &SourcesTool{store: store}
}

// Definition returns the MCP tool definition for clip_sources.
func (t *SourcesTool) Definition() mcp.Tool {
	return mcp.NewTool("clip_sources",
		mcp.WithDescription(
			"List every application clipboard entries were copied from. "+
				"Use a name from this list as the 'source' filter of clip_search.",
		),
	)
}

// Handle processes the clip_sources tool call.
func (t *SourcesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sources, err := t.store.DistinctSources()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sources: %v", err)), nil
	}
	if len(sources) == 0 {
		return mcp.NewToolResultText("No source applications recorded yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d sources:\n", len(sources))
	for _, s := range sources {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return mcp.NewToolResultText(b.String()), nil
}
