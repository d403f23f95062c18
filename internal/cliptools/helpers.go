// Package cliptools provides MCP tool handlers over the clipboard history.
//
// Each tool follows the same pattern:
// - A struct with its dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Failures are reported as tool errors (mcp.NewToolResultError), never as
// Go errors, so the client always gets a readable message.
package cliptools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Detail level values for the detail_level parameter.
const (
	DetailSummary  = "summary"
	DetailStandard = "standard"
	DetailFull     = "full"
)

// DetailLevelValues returns the enum values for tool definitions.
func DetailLevelValues() []string {
	return []string{DetailSummary, DetailStandard, DetailFull}
}

// ParseDetailLevel defaults empty or unknown values to standard.
func ParseDetailLevel(s string) string {
	switch s {
	case DetailSummary, DetailFull:
		return s
	default:
		return DetailStandard
	}
}

// SummaryFooter nudges the client toward fetching more only when needed.
const SummaryFooter = "\n---\n💡 Use detail_level: standard or full to see clip contents."

// NavigationHint returns a footer when results are capped by a limit, or
// "" when everything fits.
func NavigationHint(showing, total int, hint string) string {
	if total <= 0 || showing >= total {
		return ""
	}
	if hint != "" {
		return fmt.Sprintf("\n📊 Showing %d of %d. %s", showing, total, hint)
	}
	return fmt.Sprintf("\n📊 Showing %d of %d.", showing, total)
}

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// clampLimit bounds a requested limit to [1, maxVal], using def for
// missing or non-positive values.
func clampLimit(n, def, maxVal int) int {
	if n <= 0 {
		n = def
	}
	if n > maxVal {
		n = maxVal
	}
	return n
}

func detailLevelOption() mcp.ToolOption {
	return mcp.WithString("detail_level",
		mcp.Description(
			"Level of detail: 'summary' (identity, source and age only), "+
				"'standard' (default, one-line previews), "+
				"'full' (complete clip text).",
		),
		mcp.Enum(DetailLevelValues()...),
	)
}
