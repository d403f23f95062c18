package cliptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/clipvault/internal/detector"
	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsSource reports detector counters. *detector.Detector satisfies it.
type StatsSource interface {
	Stats() detector.Stats
}

// StatsTool handles the clip_stats MCP tool.
type StatsTool struct {
	store *history.Store
	det   StatsSource
}

// NewStatsTool creates a StatsTool. det may be nil when no detector runs.
func NewStatsTool(store *history.Store, det StatsSource) *StatsTool {
	return &StatsTool{store: store, det: det}
}

// Definition returns the MCP tool definition for clip_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("clip_stats",
		mcp.WithDescription(
			"Show clipboard history statistics: number of clips, stored size, "+
				"clips per source application and change-detector activity.",
		),
	)
}

// Handle processes the clip_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## Clipboard History\n\n")
	fmt.Fprintf(&sb, "- **Clips**: %s\n", humanize.Comma(int64(stats.TotalClips)))
	fmt.Fprintf(&sb, "- **Stored text**: %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
	if stats.TotalClips > 0 {
		fmt.Fprintf(&sb, "- **Oldest**: %s\n", humanize.Time(time.UnixMilli(stats.Oldest)))
		fmt.Fprintf(&sb, "- **Newest**: %s\n", humanize.Time(time.UnixMilli(stats.Newest)))
	}

	if len(stats.Sources) > 0 {
		sb.WriteString("\n### Sources\n\n")
		for _, sc := range stats.Sources {
			fmt.Fprintf(&sb, "- %s: %d\n", sourceLabel(sc.Source), sc.Clips)
		}
	}

	if t.det != nil {
		ds := t.det.Stats()
		sb.WriteString("\n### Detector\n\n")
		fmt.Fprintf(&sb, "- **Polls**: %s\n", humanize.Comma(ds.Polls))
		fmt.Fprintf(&sb, "- **Captures**: %d\n", ds.Captures)
		fmt.Fprintf(&sb, "- **Write-backs**: %d\n", ds.WriteBacks)
		fmt.Fprintf(&sb, "- **Failures**: %d\n", ds.Failures)
		if ds.LastCapture > 0 {
			fmt.Fprintf(&sb, "- **Last capture**: %s\n", humanize.Time(time.UnixMilli(ds.LastCapture)))
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
