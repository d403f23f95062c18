package cliptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchTool handles the clip_search MCP tool.
type SearchTool struct {
	store *history.Store
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(store *history.Store) *SearchTool {
	return &SearchTool{store: store}
}

// Definition returns the MCP tool definition for clip_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("clip_search",
		mcp.WithDescription(
			"Search clipboard history. Matches a case-insensitive substring of the copied text, "+
				"optionally restricted to one source application (see clip_sources). "+
				"With neither query nor source it returns the most recent clips.",
		),
		mcp.WithString("query",
			mcp.Description("Substring to look for, case-insensitive. Taken literally: % and _ are not wildcards."),
		),
		mcp.WithString("source",
			mcp.Description("Exact source application name to filter by"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max results (default: %d, max: %d)", defaultToolLimit, maxToolLimit)),
		),
		detailLevelOption(),
	)
}

// Handle processes the clip_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	source := strings.TrimSpace(req.GetString("source", ""))
	limit := clampLimit(intArg(req, "limit", defaultToolLimit), defaultToolLimit, maxToolLimit)
	detailLevel := ParseDetailLevel(req.GetString("detail_level", ""))

	recs, err := t.store.Search(query, history.SearchOptions{Source: source, Limit: limit})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("No clips found matching your query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d clips:\n\n", len(recs))
	writeRecords(&b, recs, detailLevel)
	if len(recs) == limit {
		fmt.Fprintf(&b, "\n📊 Limit of %d reached; refine the query or raise limit.", limit)
	}
	if detailLevel == DetailSummary {
		b.WriteString(SummaryFooter)
	}
	return mcp.NewToolResultText(b.String()), nil
}
