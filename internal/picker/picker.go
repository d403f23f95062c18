// Package picker is an interactive terminal search over the clipboard
// history. Typing narrows the list, Enter picks the highlighted clip.
package picker

import (
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// SearchFunc returns the clips matching term, newest first. A blank term
// lists recent clips.
type SearchFunc func(term string) ([]clip.Record, error)

// maxRows caps the rendered list when the terminal size is unknown.
const maxRows = 15

type resultsMsg struct {
	term string
	recs []clip.Record
	err  error
}

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	normal   lipgloss.Style
	meta     lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		normal:   lipgloss.NewStyle(),
		meta:     lipgloss.NewStyle().Faint(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		help:     lipgloss.NewStyle().Faint(true),
	}
}

// Model is the bubbletea model of the picker.
type Model struct {
	search SearchFunc
	input  textinput.Model
	keys   keyMap
	styles styles

	results []clip.Record
	cursor  int
	err     error

	width  int
	height int

	chosen   *clip.Record
	quitting bool
}

// New returns a picker backed by search.
func New(search SearchFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "Search clips..."
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.Focus()

	return Model{
		search: search,
		input:  ti,
		keys:   defaultKeyMap(),
		styles: defaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.searchCmd(""))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case resultsMsg:
		// Drop answers to queries the user has already typed past.
		if msg.term != m.input.Value() {
			return m, nil
		}
		m.results, m.err = msg.recs, msg.err
		if m.cursor >= len(m.results) {
			m.cursor = max(len(m.results)-1, 0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		if len(m.results) == 0 {
			return m, nil
		}
		rec := m.results[m.cursor]
		m.chosen = &rec
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if term := m.input.Value(); term != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.searchCmd(term))
	}
	return m, cmd
}

func (m Model) searchCmd(term string) tea.Cmd {
	search := m.search
	return func() tea.Msg {
		recs, err := search(term)
		return resultsMsg{term: term, recs: recs, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.chosen != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("clipvault"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case len(m.results) == 0:
		b.WriteString(m.styles.meta.Render("No clips."))
		b.WriteString("\n")
	default:
		m.writeRows(&b)
	}

	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) writeRows(b *strings.Builder) {
	rows := maxRows
	if m.height > 6 {
		rows = m.height - 6
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.results))

	previewLen := 80
	if m.width > 30 {
		previewLen = m.width - 30
	}

	for i := start; i < end; i++ {
		r := m.results[i]
		source := r.Source
		if source == "" {
			source = "unknown"
		}
		line := clip.Preview(r.Value, previewLen)
		meta := fmt.Sprintf("  %s · %s", source, humanize.Time(r.Time()))

		if i == m.cursor {
			b.WriteString(m.styles.selected.Render("▸ " + line))
		} else {
			b.WriteString(m.styles.normal.Render("  " + line))
		}
		b.WriteString(m.styles.meta.Render(meta))
		b.WriteString("\n")
	}
	if len(m.results) > end {
		fmt.Fprintf(b, "%s\n", m.styles.meta.Render(fmt.Sprintf("  … %d more", len(m.results)-end)))
	}
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " • "))
}

// Chosen returns the picked clip, if any.
func (m Model) Chosen() (clip.Record, bool) {
	if m.chosen == nil {
		return clip.Record{}, false
	}
	return *m.chosen, true
}

// Run shows the picker on the terminal attached to in/out and returns the
// chosen clip. ok is false when the user cancelled.
func Run(search SearchFunc, in io.Reader, out io.Writer) (rec clip.Record, ok bool, err error) {
	p := tea.NewProgram(New(search),
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return clip.Record{}, false, fmt.Errorf("picker: %w", err)
	}
	rec, ok = final.(Model).Chosen()
	return rec, ok, nil
}
