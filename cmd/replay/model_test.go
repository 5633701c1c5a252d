package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/wombats/arena"
	"github.com/brensch/wombats/memory"
	"github.com/brensch/wombats/store"
)

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

func TestModel_Navigation(t *testing.T) {
	global := arena.InitGlobal(arena.Size{Width: 4, Height: 3})
	global[0][1].Contents.Type = arena.Food
	blob, err := memory.Encode(global)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	rows := []store.TurnRow{
		{MatchID: "a", Turn: 1, Action: "move", Orientation: "n", Memory: blob, X: 2, Y: 2},
		{MatchID: "a", Turn: 2, Action: "turn", Direction: "left", Orientation: "n", Memory: blob, X: 2, Y: 1},
		{MatchID: "b", Turn: 1, Action: "noop", Orientation: "e", Error: "decision deadline exceeded"},
	}
	m, err := newModel(rows, "", true)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}

	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}
	next := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}

	m = press(t, m, right, right, right)
	if m.idx != 1 {
		t.Fatalf("idx = %d, want clamp at 1", m.idx)
	}
	view := m.View()
	if !strings.Contains(view, "turn left") || !strings.Contains(view, "~F~~\n~~A~\n~~~~") {
		t.Fatalf("view:\n%s", view)
	}

	m = press(t, m, left, left)
	if m.idx != 0 {
		t.Fatalf("idx = %d, want 0", m.idx)
	}

	m = press(t, m, next)
	if m.matches[m.match] != "b" || m.idx != 0 {
		t.Fatalf("match = %s idx %d", m.matches[m.match], m.idx)
	}
	view = m.View()
	if !strings.Contains(view, "decision deadline exceeded") || !strings.Contains(view, "no memory recorded") {
		t.Fatalf("view:\n%s", view)
	}

	m = press(t, m, next)
	if m.matches[m.match] != "a" {
		t.Fatalf("next match did not wrap")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatalf("q did not quit")
	}
}

func TestNewModel_Errors(t *testing.T) {
	if _, err := newModel(nil, "", true); err == nil {
		t.Fatalf("empty archive accepted")
	}
	if _, err := newModel([]store.TurnRow{{MatchID: "a"}}, "zz", true); err == nil {
		t.Fatalf("unknown match accepted")
	}
}
