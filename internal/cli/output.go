package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/dustin/go-humanize"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Runtime failure (clipboard, store write)
	ExitCommandError = 2 // Command error (bad flags, unknown clip, unreadable config)
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope of every --format json result.
type CLIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// JSON reports whether JSON output was requested.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success writes data in the JSON envelope. Text output is written by
// each command itself.
func (f *OutputFormatter) Success(data any) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
}

// Records writes clips as JSON or as a readable listing.
func (f *OutputFormatter) Records(recs []clip.Record) error {
	if f.JSON() {
		if recs == nil {
			recs = []clip.Record{}
		}
		return f.Success(map[string]any{"clips": recs})
	}
	if len(recs) == 0 {
		fmt.Fprintln(f.Writer, "No clips.")
		return nil
	}
	for _, r := range recs {
		fmt.Fprintf(f.Writer, "%s  %s  %s\n    %s\n",
			r.Identity, sourceLabel(r.Source), humanize.Time(r.Time()),
			clip.Preview(r.Value, 100))
	}
	return nil
}

func sourceLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
