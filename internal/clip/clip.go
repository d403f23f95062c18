// Package clip defines the clipboard history record and the content
// identity used to deduplicate it.
package clip

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"
)

// Record is one captured clipboard entry.
type Record struct {
	Value      string `json:"value"`
	Identity   string `json:"identity"`
	CapturedAt int64  `json:"captured_at"` // unix milliseconds
	Source     string `json:"source,omitempty"`
}

// Time returns CapturedAt as a time.Time in the local zone.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.CapturedAt)
}

// Build creates a Record stamped with the current wall clock.
// Callers must reject blank values first; Build does not re-validate.
func Build(value, source string) Record {
	return BuildAt(value, source, time.Now())
}

// BuildAt creates a Record stamped with the given time.
func BuildAt(value, source string, at time.Time) Record {
	return Record{
		Value:      value,
		Identity:   Identity(value),
		CapturedAt: at.UnixMilli(),
		Source:     source,
	}
}

// Identity returns the hex MD5 digest of the raw bytes of value.
// It is the dedup key: equal values always map to the same identity.
func Identity(value string) string {
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Preview returns the first n runes of value on a single line.
func Preview(value string, n int) string {
	line := strings.Join(strings.Fields(value), " ")
	if n <= 0 || utf8.RuneCountInString(line) <= n {
		return line
	}
	runes := []rune(line)
	return string(runes[:n]) + "..."
}
