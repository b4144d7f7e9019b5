// Package goals is the TUI goal manager: a list with progress bars plus
// create and delete flows.
package goals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/dashboard"
	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/theme"
)

// progressStep is the change applied by the increase and decrease keys.
const progressStep = 10

// Service is the goal side of the dashboard; *dashboard.Service
// satisfies it.
type Service interface {
	Goals(ctx context.Context, userID string) ([]model.Goal, error)
	CreateGoal(ctx context.Context, userID string, in dashboard.GoalInput) (model.Goal, error)
	SetGoalProgress(ctx context.Context, id string, pct int) (model.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// CloseMsg signals the parent to close the goal view.
type CloseMsg struct{}

// ChangedMsg is sent after a goal was created, updated or deleted.
type ChangedMsg struct{}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	title       string
	description string
	category    string
	priority    string
	deadline    string
	target      string
	confirm     bool
}

// LoadedMsg carries the user's goals.
type LoadedMsg struct {
	Goals []model.Goal
	Err   error
}

type savedMsg struct {
	status string
	err    error
}

// Model is the Bubble Tea model for goal management.
type Model struct {
	mode        mode
	svc         Service
	userID      string
	keys        *keys.KeyMap
	goals       []model.Goal
	selectedIdx int
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	bar         progress.Model
	statusMsg   string
	now         func() time.Time
	width       int
	height      int
}

// New creates a goal manager for userID.
func New(svc Service, userID string, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		svc:    svc,
		userID: userID,
		keys:   k,
		fb:     &formBindings{},
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(20)),
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// Init loads the goals.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		}
		m.goals = msg.Goals
		if m.selectedIdx >= len(m.goals) {
			m.selectedIdx = max(len(m.goals)-1, 0)
		}
		return m, nil

	case savedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = msg.status
		return m, tea.Batch(m.Load(), func() tea.Msg { return ChangedMsg{} })

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.handleListKey(msg)
		}
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Goals):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.goals) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.goals)
		}

	case key.Matches(msg, m.keys.Up):
		if len(m.goals) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.goals)) % len(m.goals)
		}

	case key.Matches(msg, m.keys.NewTask):
		*m.fb = formBindings{priority: string(model.PriorityMedium)}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Increase):
		if g, ok := m.selected(); ok {
			return m, m.setProgress(g.ID, g.Progress+progressStep)
		}

	case key.Matches(msg, m.keys.Decrease):
		if g, ok := m.selected(); ok {
			return m, m.setProgress(g.ID, g.Progress-progressStep)
		}

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.fb.confirm = false
			m.confirmForm = m.buildConfirmForm()
			m.mode = modeConfirmDelete
			return m, m.confirmForm.Init()
		}
	}
	return m, nil
}

func (m Model) selected() (model.Goal, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.goals) {
		return model.Goal{}, false
	}
	return m.goals[m.selectedIdx], true
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What do you want to achieve?").
				Value(&m.fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Category").
				Value(&m.fb.category),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", string(model.PriorityLow)),
					huh.NewOption("Medium", string(model.PriorityMedium)),
					huh.NewOption("High", string(model.PriorityHigh)),
				).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.deadline).
				Validate(func(s string) error {
					_, err := model.ParseDate(s)
					return err
				}),
			huh.NewInput().
				Title("Target").
				Placeholder("e.g. 42 km").
				Value(&m.fb.target),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) buildConfirmForm() *huh.Form {
	title := ""
	if g, ok := m.selected(); ok {
		title = g.Title
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete goal %q?", title)).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m, m.create()
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		if g, ok := m.selected(); ok && m.fb.confirm {
			return m, m.remove(g.ID)
		}
		m.mode = modeList
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the goal manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	b.WriteString(titleStyle.Render("Goals"))
	b.WriteString("\n\n")

	if len(m.goals) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No goals yet. Press 'n' to create one."))
	}
	for i, g := range m.goals {
		line := m.renderGoal(g)
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("n new | +/- progress | d delete | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderGoal(g model.Goal) string {
	pri := theme.PriorityStyle(g.Priority).Render(priorityLabel(g.Priority))
	line := fmt.Sprintf("%s %s  %s %3d%%", pri, g.Title, m.bar.ViewAs(float64(g.Progress)/100), g.Progress)

	if g.Completed() {
		return line + lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("  done")
	}
	if days, ok := g.DaysRemaining(m.now()); ok {
		if days == 0 {
			line += lipgloss.NewStyle().Foreground(theme.ColorRed).Render("  due")
		} else {
			line += theme.HelpStyle.Render(fmt.Sprintf("  %dd left", days))
		}
	}
	return line
}

func priorityLabel(p model.Priority) string {
	if p == "" {
		return "-"
	}
	return strings.ToUpper(string(p[:1]))
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

// Load returns a command that fetches the goals.
func (m Model) Load() tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		goals, err := svc.Goals(context.Background(), userID)
		return LoadedMsg{Goals: goals, Err: err}
	}
}

func (m Model) create() tea.Cmd {
	svc, userID, fb := m.svc, m.userID, *m.fb
	return func() tea.Msg {
		deadline, err := model.ParseDate(fb.deadline)
		if err != nil {
			return savedMsg{err: err}
		}
		_, err = svc.CreateGoal(context.Background(), userID, dashboard.GoalInput{
			Title:       fb.title,
			Description: fb.description,
			Category:    fb.category,
			Priority:    fb.priority,
			Deadline:    deadline,
			Target:      fb.target,
		})
		return savedMsg{status: "Goal created", err: err}
	}
}

func (m Model) setProgress(id string, pct int) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		g, err := svc.SetGoalProgress(context.Background(), id, pct)
		return savedMsg{status: fmt.Sprintf("%s: %d%%", g.Title, g.Progress), err: err}
	}
}

func (m Model) remove(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return savedMsg{status: "Goal deleted", err: svc.DeleteGoal(context.Background(), id)}
	}
}
