package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/theme"
)

// commands lists the palette commands shown under the key bindings.
var commands = []string{
	"timer <minutes>[:<seconds>]   set the countdown",
	"tone bell|chime|beep|notification",
	"sound on|off    notify on|off",
	"theme light|dark",
	"stats           reload the header summary",
	"quit",
}

// Model is the help overlay.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a help overlay for k.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width - 4
	return Model{keys: k, help: h, width: width, height: height}
}

// Update does nothing; the root model closes the overlay.
func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the bindings and palette commands.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)

	cmdLines := make([]string, len(commands))
	for i, c := range commands {
		cmdLines[i] = theme.HelpStyle.Render("  :" + c)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		title.Render("Commands"),
		lipgloss.JoinVertical(lipgloss.Left, cmdLines...),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
