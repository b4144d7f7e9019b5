package tasklist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/theme"
)

// Service is the task side of the dashboard; *dashboard.Service
// satisfies it.
type Service interface {
	TodayTasks(ctx context.Context, userID string) ([]model.Task, error)
	ToggleTaskComplete(ctx context.Context, id string) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TasksLoadedMsg carries today's tasks.
type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

// TaskChangedMsg is sent after a task was toggled or deleted.
type TaskChangedMsg struct {
	Err error
}

// Model lists the user's tasks due today.
type Model struct {
	list   list.Model
	svc    Service
	userID string
	keys   *keys.KeyMap
	err    error
	width  int
	height int
}

// New creates a task list for userID.
func New(svc Service, userID string, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, max(height-2, 0))
	l.Title = "Today"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		svc:    svc,
		userID: userID,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles loading results and list keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.err = msg.Err
		items := make([]list.Item, len(msg.Tasks))
		for i, task := range msg.Tasks {
			items[i] = TaskItem{Task: task}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Complete):
			if item, ok := m.SelectedItem(); ok {
				return m, m.toggle(item.Task.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.SelectedItem(); ok {
				return m, m.remove(item.Task.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SelectedItem returns the highlighted task, if any.
func (m Model) SelectedItem() (TaskItem, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	return item, ok
}

// View renders the list or an empty-state hint.
func (m Model) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Foreground(theme.ColorRed).
			Padding(1, 2).
			Render("Could not load tasks: " + m.err.Error())
	}
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Nothing due today.\n\nPress n to add a task.")
	}
	return m.list.View()
}

// LoadTasks returns a command that fetches today's tasks.
func (m Model) LoadTasks() tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		tasks, err := svc.TodayTasks(context.Background(), userID)
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

func (m Model) toggle(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		_, err := svc.ToggleTaskComplete(context.Background(), id)
		return TaskChangedMsg{Err: err}
	}
}

func (m Model) remove(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return TaskChangedMsg{Err: svc.DeleteTask(context.Background(), id)}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-2, 0))
}
