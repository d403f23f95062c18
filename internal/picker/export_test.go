package picker

import (
	"github.com/HendryAvila/clipvault/internal/clip"
	tea "github.com/charmbracelet/bubbletea"
)

// RunSearch performs the pending query synchronously, as the runtime would
// by executing the search command.
func RunSearch(m Model) Model {
	next, _ := m.Update(m.searchCmd(m.input.Value())())
	return next.(Model)
}

// Query returns the current input value.
func Query(m Model) string {
	return m.input.Value()
}

// Cursor returns the highlighted row.
func Cursor(m Model) int {
	return m.cursor
}

// ResultsFor builds the message a finished search for term delivers.
func ResultsFor(term string, recs []clip.Record) tea.Msg {
	return resultsMsg{term: term, recs: recs}
}
