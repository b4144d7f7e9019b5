package command

import (
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line   string
		want   CommandMsg
		wantOK bool
	}{
		{"", CommandMsg{}, false},
		{"   ", CommandMsg{}, false},
		{"quit", CommandMsg{Name: "quit", Args: []string{}}, true},
		{"  Timer 25:30 ", CommandMsg{Name: "timer", Args: []string{"25:30"}}, true},
		{"tone chime extra", CommandMsg{Name: "tone", Args: []string{"chime", "extra"}}, true},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.line)
		if ok != tt.wantOK || got.Name != tt.want.Name || !slices.Equal(got.Args, tt.want.Args) {
			t.Errorf("Parse(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80)
	m.Focus()
	for _, r := range "tone beep" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	msg, ok := cmd().(CommandMsg)
	if !ok || msg.Name != "tone" || !slices.Equal(msg.Args, []string{"beep"}) {
		t.Errorf("msg = %#v", msg)
	}
}

func TestEscCancels(t *testing.T) {
	m := New(80)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CancelMsg); !ok {
		t.Error("esc did not cancel")
	}
}
