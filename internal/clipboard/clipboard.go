// Package clipboard is the narrow read/write port onto the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var (
	// ErrNoText means the clipboard holds no text (empty, or a non-text
	// payload such as an image). It is not a failure.
	ErrNoText = errors.New("clipboard: no text content")

	// ErrUnavailable means no clipboard backend exists on this system.
	ErrUnavailable = errors.New("clipboard: unavailable")
)

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System is the Clipboard backed by the OS clipboard utilities
// (pbcopy/pbpaste, xclip/xsel/wl-clipboard, or the Windows API).
type System struct{}

var _ Clipboard = (*System)(nil)

// NewSystem returns the system clipboard, or ErrUnavailable when no
// backend can be found.
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, ErrUnavailable
	}
	return &System{}, nil
}

// ReadText returns the current clipboard text.
func (s *System) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// WriteText replaces the clipboard contents with text.
func (s *System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}
