package cliptools

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/dustin/go-humanize"
)

// standardPreviewLen is the preview length at the standard detail level.
const standardPreviewLen = 200

// sourceLabel renders an empty source as "unknown".
func sourceLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}

// writeRecords renders recs at the given detail level.
func writeRecords(b *strings.Builder, recs []clip.Record, detailLevel string) {
	for i, r := range recs {
		age := humanize.Time(r.Time())
		switch detailLevel {
		case DetailSummary:
			fmt.Fprintf(b, "[%d] %s | %s | %s\n", i+1, r.Identity, sourceLabel(r.Source), age)
		case DetailFull:
			fmt.Fprintf(b, "[%d] %s | %s | %s | %s\n%s\n\n",
				i+1, r.Identity, sourceLabel(r.Source), age,
				humanize.Bytes(uint64(len(r.Value))), r.Value)
		default:
			fmt.Fprintf(b, "[%d] %s | %s | %s\n    %s\n",
				i+1, r.Identity, sourceLabel(r.Source), age,
				clip.Preview(r.Value, standardPreviewLen))
		}
	}
}
