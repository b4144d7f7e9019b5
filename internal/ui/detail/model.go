package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/theme"
)

// BackMsg signals the parent to navigate back to the dashboard.
type BackMsg struct{}

// ToggleMsg asks the parent to flip the shown task's completion.
type ToggleMsg struct {
	TaskID string
}

// Model shows one task in a scrollable viewport.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates an empty detail view.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, max(height-2, 0))
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Update handles back, toggle and scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if m.task != nil {
				id := m.task.ID
				return m, func() tea.Msg { return ToggleMsg{TaskID: id} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the task or a placeholder.
func (m Model) View() string {
	if m.task == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No task selected")
	}
	return m.viewport.View()
}

func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}
	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	status := theme.TimerStateStyle("idle").Render("OPEN")
	if task.Completed {
		status = theme.TimerStateStyle("completed").Render("DONE")
	}
	pri := theme.PriorityStyle(task.Priority).Render(strings.ToUpper(string(task.Priority)))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, status, "  ", pri), "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(11)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) {
		if value != "" {
			sections = append(sections, metaStyle.Render(label+":")+valStyle.Render(value))
		}
	}

	row("Category", task.Category)
	row("Due", task.DueDate.String())
	row("Estimate", fmt.Sprintf("%gh", task.EstimatedTime))
	if !task.CreatedAt.IsZero() {
		row("Created", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if task.CompletedAt != nil {
		row("Completed", task.CompletedAt.Local().Format("2006-01-02 15:04"))
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", sep, "")

	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).Render("No description")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask replaces the shown task and scrolls to the top.
func (m *Model) SetTask(task model.Task) {
	m.task = &task
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Task returns the shown task, if any.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 0)
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
