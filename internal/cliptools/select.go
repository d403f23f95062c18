package cliptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// WriteBacker puts text back on the system clipboard and records it.
// *detector.Detector satisfies it.
type WriteBacker interface {
	WriteBack(ctx context.Context, text string) error
}

// SelectTool handles the clip_select MCP tool.
type SelectTool struct {
	store  *history.Store
	writer WriteBacker
}

// NewSelectTool creates a SelectTool.
func NewSelectTool(store *history.Store, writer WriteBacker) *SelectTool {
	return &SelectTool{store: store, writer: writer}
}

// Definition returns the MCP tool definition for clip_select.
func (t *SelectTool) Definition() mcp.Tool {
	return mcp.NewTool("clip_select",
		mcp.WithDescription(
			"Put a clip back on the system clipboard so the user can paste it. "+
				"Pass either the clip 'identity' from clip_list/clip_search or the literal 'value'. "+
				"The clip moves to the top of the history.",
		),
		mcp.WithString("identity",
			mcp.Description("Identity of a stored clip (32-char hex)"),
		),
		mcp.WithString("value",
			mcp.Description("Literal text to place on the clipboard"),
		),
	)
}

// Handle processes the clip_select tool call.
func (t *SelectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity := req.GetString("identity", "")
	value := req.GetString("value", "")

	switch {
	case identity != "" && value != "":
		return mcp.NewToolResultError("pass either 'identity' or 'value', not both"), nil
	case identity == "" && value == "":
		return mcp.NewToolResultError("'identity' or 'value' is required"), nil
	}

	if identity != "" {
		rec, err := t.store.Get(identity)
		if errors.Is(err, history.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no clip with identity %s", identity)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		value = rec.Value
	}

	if clip.IsBlank(value) {
		return mcp.NewToolResultError("'value' must not be blank"), nil
	}

	if err := t.writer.WriteBack(ctx, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to select clip: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"📋 Copied to clipboard: %s\nIdentity: %s",
		clip.Preview(value, standardPreviewLen), clip.Identity(value),
	)), nil
}
