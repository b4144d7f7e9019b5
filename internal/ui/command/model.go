package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Name string
	Args []string
}

// CancelMsg is emitted when the palette is dismissed with esc.
type CancelMsg struct{}

// Parse splits a palette line into a lowercased command name and its
// arguments. ok is false for blank input.
func Parse(line string) (CommandMsg, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandMsg{}, false
	}
	return CommandMsg{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// Model is the command palette.
type Model struct {
	input textinput.Model
	width int
}

// New creates a command palette.
func New(width int) Model {
	ti := textinput.New()
	ti.Placeholder = "timer 25, tone chime, theme dark..."
	ti.Prompt = ": "
	ti.Width = width - 6
	return Model{input: ti, width: width}
}

// Update handles input while the palette is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			cmd, ok := Parse(m.input.Value())
			m.input.Reset()
			if !ok {
				return m, func() tea.Msg { return CancelMsg{} }
			}
			return m, func() tea.Msg { return cmd }
		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the palette.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Command")

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.input.View()))
}

// SetSize updates the palette width.
func (m *Model) SetSize(width int) {
	m.width = width
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
