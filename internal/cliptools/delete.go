package cliptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// DeleteTool handles the clip_delete MCP tool.
type DeleteTool struct {
	store *history.Store
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(store *history.Store) *DeleteTool {
	return &DeleteTool{store: store}
}

// Definition returns the MCP tool definition for clip_delete.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("clip_delete",
		mcp.WithDescription(
			"Forget a clip: permanently remove it from the history. "+
				"Copying the same text again records it anew.",
		),
		mcp.WithString("identity",
			mcp.Required(),
			mcp.Description("Identity of the clip to remove (from clip_list or clip_search)"),
		),
	)
}

// Handle processes the clip_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity := req.GetString("identity", "")
	if identity == "" {
		return mcp.NewToolResultError("'identity' is required"), nil
	}

	err := t.store.Delete(identity)
	if errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no clip with identity %s", identity)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("🗑️ Forgot clip %s", identity)), nil
}
