package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/wombats/arena"
	"github.com/brensch/wombats/memory"
	"github.com/brensch/wombats/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	glyphStyles = map[byte]lipgloss.Style{
		'~': dimStyle,
		'F': lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		'P': lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		'#': lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		'@': lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		'A': lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
)

type model struct {
	rows    []store.TurnRow
	matches []string
	match   int
	turns   []store.TurnRow
	idx     int
	plain   bool
}

func newModel(rows []store.TurnRow, match string, plain bool) (model, error) {
	m := model{rows: rows, matches: store.Matches(rows), plain: plain}
	if len(m.matches) == 0 {
		return m, fmt.Errorf("archive has no turns")
	}
	if match != "" {
		m.match = -1
		for i, id := range m.matches {
			if id == match {
				m.match = i
			}
		}
		if m.match < 0 {
			return m, fmt.Errorf("match %q not in archive", match)
		}
	}
	m.selectMatch(m.match)
	return m, nil
}

func (m *model) selectMatch(i int) {
	m.match = (i + len(m.matches)) % len(m.matches)
	m.turns = store.ForMatch(m.rows, m.matches[m.match])
	m.idx = 0
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", " ":
		if m.idx < len(m.turns)-1 {
			m.idx++
		}
	case "left", "h":
		if m.idx > 0 {
			m.idx--
		}
	case "home", "g":
		m.idx = 0
	case "end", "G":
		m.idx = len(m.turns) - 1
	case "n":
		m.selectMatch(m.match + 1)
	case "p":
		m.selectMatch(m.match - 1)
	}
	return m, nil
}

func (m model) View() string {
	row := m.turns[m.idx]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("match %s (%d/%d)  turn %d/%d",
		row.MatchID, m.match+1, len(m.matches), m.idx+1, len(m.turns))))
	b.WriteString("\n")

	cmd := row.Action
	if row.Direction != "" {
		cmd += " " + row.Direction
	}
	fmt.Fprintf(&b, "at (%d,%d) facing %s  %s", row.X, row.Y, row.Orientation, cmd)
	if row.Reason != "" {
		fmt.Fprintf(&b, "  [%s]", row.Reason)
	}
	fmt.Fprintf(&b, "  %dµs\n", row.ElapsedUs)
	if row.Error != "" {
		b.WriteString(errStyle.Render("error: "+row.Error) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.board(row))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("←/→ turn  home/end  n/p match  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) board(row store.TurnRow) string {
	if row.Memory == "" {
		return dimStyle.Render("(no memory recorded)") + "\n"
	}
	global, err := memory.Decode(row.Memory)
	if err != nil {
		return errStyle.Render("memory: "+err.Error()) + "\n"
	}
	at := arena.Position{X: int(row.X), Y: int(row.Y)}
	text := arena.Render(global, &at)
	if m.plain {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if st, ok := glyphStyles[c]; ok {
			b.WriteString(st.Render(string(c)))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
