package detector

import "sync"

// Snapshot is the last clipboard text the process observed or wrote.
// It only suppresses duplicate and self-triggered captures; it is never
// persisted. The zero value is empty and ready to use.
type Snapshot struct {
	mu    sync.Mutex
	value string
	set   bool
}

// Get returns the current text and whether one was ever set.
func (s *Snapshot) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Set overwrites the snapshot unconditionally.
func (s *Snapshot) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.set = text, true
}

// claim compares text with the snapshot and, when it differs, stores it
// in the same critical section. The returned claim undoes the store.
func (s *Snapshot) claim(text string) (claim, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set && s.value == text {
		return claim{}, false
	}
	c := claim{snap: s, text: text, prev: s.value, hadPrev: s.set}
	s.value, s.set = text, true
	return c, true
}

type claim struct {
	snap    *Snapshot
	text    string
	prev    string
	hadPrev bool
}

// rollback restores the previous value, unless someone else has claimed
// a newer text in the meantime.
func (c claim) rollback() {
	s := c.snap
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set && s.value == c.text {
		s.value, s.set = c.prev, c.hadPrev
	}
}
