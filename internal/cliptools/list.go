package cliptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool-facing limits. The store's own default still bounds anything larger.
const (
	defaultToolLimit = 20
	maxToolLimit     = 200
)

// ListTool handles the clip_list MCP tool.
type ListTool struct {
	store *history.Store
}

// NewListTool creates a ListTool.
func NewListTool(store *history.Store) *ListTool {
	return &ListTool{store: store}
}

// Definition returns the MCP tool definition for clip_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("clip_list",
		mcp.WithDescription(
			"List the most recently copied clipboard entries, newest first. "+
				"Each entry shows its identity, the application it was copied from and when.",
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max entries (default: %d, max: %d)", defaultToolLimit, maxToolLimit)),
		),
		detailLevelOption(),
	)
}

// Handle processes the clip_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := clampLimit(intArg(req, "limit", defaultToolLimit), defaultToolLimit, maxToolLimit)
	detailLevel := ParseDetailLevel(req.GetString("detail_level", ""))

	recs, err := t.store.ListRecent(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("Clipboard history is empty."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d recent clips:\n\n", len(recs))
	writeRecords(&b, recs, detailLevel)

	if total, err := t.store.Count(); err == nil {
		b.WriteString(NavigationHint(len(recs), total, "Raise limit or use clip_search to narrow down."))
	}
	if detailLevel == DetailSummary {
		b.WriteString(SummaryFooter)
	}
	return mcp.NewToolResultText(b.String()), nil
}
