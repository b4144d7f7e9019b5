package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/dashboard"
	"github.com/nhle/focusboard/internal/events"
	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/stats"
	"github.com/nhle/focusboard/internal/timer"
	"github.com/nhle/focusboard/internal/ui"
	"github.com/nhle/focusboard/internal/ui/command"
	"github.com/nhle/focusboard/internal/ui/detail"
	"github.com/nhle/focusboard/internal/ui/goals"
	helpview "github.com/nhle/focusboard/internal/ui/help"
	"github.com/nhle/focusboard/internal/ui/taskform"
	"github.com/nhle/focusboard/internal/ui/tasklist"
	"github.com/nhle/focusboard/internal/ui/timerview"
)

// ViewState is the view that currently receives keys.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewHelp
	ViewCommand
	ViewTaskForm
	ViewGoals
	ViewDetail
)

// flashDuration is how long a status message replaces the key hints.
const flashDuration = 4 * time.Second

// StatsSource computes the header summary; *stats.Aggregator satisfies it.
type StatsSource interface {
	UserStats(ctx context.Context, userID string) (stats.UserStats, error)
}

// SettingsStore persists palette changes; *store.Store satisfies it.
type SettingsStore interface {
	SaveSettings(ctx context.Context, s model.Settings) error
	SaveTheme(ctx context.Context, theme string) error
}

// Deps are the services the TUI runs against.
type Deps struct {
	User      model.User
	Timer     *timer.Timer
	Scheduler *timerview.Scheduler
	Bridge    *events.Bridge
	Dashboard *dashboard.Service
	Stats     StatsSource
	Settings  SettingsStore

	// TimerConfig and UserSettings seed the completion behaviour; palette
	// commands update UserSettings and re-derive the timer config.
	TimerConfig  model.TimerConfig
	UserSettings model.Settings

	Logger *zap.Logger
}

type statsLoadedMsg struct {
	stats stats.UserStats
	err   error
}

type taskCreatedMsg struct {
	err error
}

type taskToggledMsg struct {
	task model.Task
	err  error
}

type flashExpiredMsg struct {
	seq int
}

// Model is the root Bubble Tea model: it routes keys between the timer
// panel, the task list and the overlays.
type Model struct {
	deps        Deps
	currentView ViewState
	layout      ui.Layout
	keys        *keys.KeyMap
	timerView   timerview.Model
	taskList    tasklist.Model
	taskForm    taskform.Model
	goalsView   goals.Model
	detailView  detail.Model
	helpView    helpview.Model
	commandView command.Model
	stats       stats.UserStats
	flash       string
	flashSeq    int
	ready       bool
	logger      *zap.Logger
}

// New creates the root model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		deps:        d,
		currentView: ViewDashboard,
		keys:        k,
		timerView:   timerview.New(d.Timer, d.Scheduler, k, d.TimerConfig.BreakMinutes),
		taskList:    tasklist.New(d.Dashboard, d.User.ID, k, 40, 20),
		taskForm:    taskform.New(80, 24),
		goalsView:   goals.New(d.Dashboard, d.User.ID, k, 80, 24),
		detailView:  detail.New(k, 40, 20),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80),
		logger:      logger.Named("tui"),
	}
}

// Init loads tasks and stats and starts listening for timer events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.taskList.Init(),
		m.loadStats(),
		m.deps.Bridge.Wait(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		h := m.layout.ContentHeight()
		m.timerView.SetSize(m.layout.TimerWidth(), h)
		m.taskList.SetSize(m.layout.TaskWidth(), h)
		m.taskForm.SetSize(msg.Width, h)
		m.goalsView.SetSize(msg.Width, h)
		m.detailView.SetSize(m.layout.TaskWidth(), h)
		m.helpView.SetSize(msg.Width, h)
		m.commandView.SetSize(msg.Width)
		return m, nil

	case timerview.TickMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd

	case events.SessionDoneMsg:
		text := "Focus session complete"
		if msg.Session.Kind == timer.KindBreak {
			text = "Break over"
		}
		return m, tea.Batch(m.setFlash(text), m.loadStats(), m.deps.Bridge.Wait())

	case events.BreakOfferMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, tea.Batch(cmd, m.deps.Bridge.Wait())

	case statsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("loading stats failed", zap.Error(msg.err))
			return m, nil
		}
		m.stats = msg.stats
		return m, nil

	case tasklist.TasksLoadedMsg:
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case tasklist.TaskChangedMsg:
		if msg.Err != nil {
			return m, m.setFlash("Task not updated: " + msg.Err.Error())
		}
		return m, tea.Batch(m.taskList.LoadTasks(), m.loadStats())

	case taskform.SubmittedMsg:
		m.currentView = ViewDashboard
		return m, m.createTask(msg.Input)

	case taskform.CancelMsg:
		m.currentView = ViewDashboard
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			return m, m.setFlash("Task not created: " + msg.err.Error())
		}
		return m, tea.Batch(m.setFlash("Task added"), m.taskList.LoadTasks(), m.loadStats())

	case goals.LoadedMsg:
		var cmd tea.Cmd
		m.goalsView, cmd = m.goalsView.Update(msg)
		return m, cmd

	case goals.CloseMsg:
		m.currentView = ViewDashboard
		return m, nil

	case goals.ChangedMsg:
		return m, m.loadStats()

	case detail.BackMsg:
		m.currentView = ViewDashboard
		return m, nil

	case detail.ToggleMsg:
		return m, m.toggleTask(msg.TaskID)

	case taskToggledMsg:
		if msg.err != nil {
			return m, m.setFlash("Task not updated: " + msg.err.Error())
		}
		m.detailView.SetTask(msg.task)
		return m, tea.Batch(m.taskList.LoadTasks(), m.loadStats())

	case command.CommandMsg:
		m.currentView = ViewDashboard
		return m.executeCommand(msg)

	case command.CancelMsg:
		m.currentView = ViewDashboard
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.currentView {
	case ViewTaskForm, ViewCommand, ViewGoals, ViewDetail:
		return m.updateActiveView(msg)
	case ViewHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			m.currentView = ViewDashboard
		}
		return m, nil
	}

	if m.timerView.Offering() {
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.currentView = ViewHelp
		return m, nil
	case ":":
		m.currentView = ViewCommand
		return m, m.commandView.Focus()
	case "n":
		m.currentView = ViewTaskForm
		return m, m.taskForm.Start(model.DateOf(time.Now()))
	case "R":
		return m, tea.Batch(m.taskList.LoadTasks(), m.loadStats())
	case "g":
		m.currentView = ViewGoals
		return m, m.goalsView.Load()
	case "enter":
		if item, ok := m.taskList.SelectedItem(); ok {
			m.detailView.SetTask(item.Task)
			m.currentView = ViewDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.timerView.Handles(msg) {
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd
	}
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// updateActiveView dispatches msg to the overlay that has focus.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewGoals:
		m.goalsView, cmd = m.goalsView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	default:
		m.taskList, cmd = m.taskList.Update(msg)
	}

	return m, cmd
}

// View renders the frame around the active view.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("focusboard", m.summary())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	var content string
	switch m.currentView {
	case ViewHelp:
		content = m.helpView.View()
	case ViewTaskForm:
		content = m.taskForm.View()
	case ViewGoals:
		content = m.goalsView.View()
	case ViewDetail:
		content = m.layout.RenderSplit(m.timerView.View(), m.detailView.View())
	case ViewCommand:
		content = m.layout.RenderSplit(m.timerView.View(), m.commandView.View())
	default:
		content = m.layout.RenderSplit(m.timerView.View(), m.taskList.View())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// summary is the right side of the header.
func (m Model) summary() string {
	name := m.deps.User.FullName()
	if name == "" {
		name = m.deps.User.Email
	}
	return fmt.Sprintf("%s · %.1fh today · score %d · streak %d",
		name, m.stats.FocusHoursToday, m.stats.ProductivityScore, m.stats.Streak)
}

// keyHints returns the status bar text for the current view.
func (m Model) keyHints() string {
	if m.flash != "" {
		return m.flash
	}
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc cancel"
	case ViewTaskForm:
		return "enter next | esc cancel"
	case ViewGoals:
		return "n new | +/- progress | d delete | esc back"
	case ViewDetail:
		return "x toggle done | ↑/↓ scroll | esc back"
	}
	if m.timerView.Offering() {
		return "←/→ choose | enter confirm"
	}
	return "space start/pause | r reset | 1-4 presets | x done | enter details | n new | g goals | : command | ? help | q quit"
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.deps.Timer.Pause()
	m.deps.Bridge.Close()
	return m, tea.Quit
}

// setFlash shows text in the status bar until flashDuration passes or a
// newer message replaces it.
func (m *Model) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashExpiredMsg{seq: seq} })
}

func (m Model) loadStats() tea.Cmd {
	src, userID := m.deps.Stats, m.deps.User.ID
	return func() tea.Msg {
		s, err := src.UserStats(context.Background(), userID)
		return statsLoadedMsg{stats: s, err: err}
	}
}

func (m Model) createTask(in dashboard.TaskInput) tea.Cmd {
	svc, userID := m.deps.Dashboard, m.deps.User.ID
	return func() tea.Msg {
		_, err := svc.CreateTask(context.Background(), userID, in)
		return taskCreatedMsg{err: err}
	}
}

func (m Model) toggleTask(id string) tea.Cmd {
	svc := m.deps.Dashboard
	return func() tea.Msg {
		task, err := svc.ToggleTaskComplete(context.Background(), id)
		return taskToggledMsg{task: task, err: err}
	}
}
