package clipboard

import "sync"

// Memory is an in-process Clipboard. It backs headless runs and tests.
type Memory struct {
	mu       sync.Mutex
	text     string
	readErr  error
	writeErr error
	writes   int
}

var _ Clipboard = (*Memory)(nil)

// NewMemory returns a Memory clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// ReadText returns the held text, ErrNoText when empty, or the injected
// read error.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	if m.text == "" {
		return "", ErrNoText
	}
	return m.text, nil
}

// WriteText stores text unless a write error was injected.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = text
	m.writes++
	return nil
}

// Copy simulates another application copying text.
func (m *Memory) Copy(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// FailReads makes ReadText return err until cleared with nil.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes WriteText return err until cleared with nil.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns how many successful WriteText calls were made.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
