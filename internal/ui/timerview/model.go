// Package timerview renders the focus timer panel: the countdown, a
// progress bar and the break offer.
package timerview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/events"
	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/theme"
	"github.com/nhle/focusboard/internal/timer"
)

// Controller is the part of *timer.Timer the view drives.
type Controller interface {
	Status() timer.Status
	SetDuration(seconds int) error
	Start()
	Pause()
	Reset()
}

// breakOffer holds the confirm form on the heap so huh's value pointer
// survives model copies.
type breakOffer struct {
	form   *huh.Form
	take   bool
	accept func()
}

// Model is the timer panel.
type Model struct {
	timer        Controller
	sched        *Scheduler
	keys         *keys.KeyMap
	bar          progress.Model
	offer        *breakOffer
	breakMinutes int
	width        int
	height       int
}

// New creates a timer panel. sched must be the scheduler t was built with.
func New(t Controller, sched *Scheduler, k *keys.KeyMap, breakMinutes int) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	return Model{
		timer:        t,
		sched:        sched,
		keys:         k,
		bar:          bar,
		breakMinutes: breakMinutes,
		width:        40,
		height:       12,
	}
}

// Offering reports whether the break confirm has focus.
func (m Model) Offering() bool {
	return m.offer != nil
}

// Handles reports whether k is a timer control.
func (m Model) Handles(k tea.KeyMsg) bool {
	return key.Matches(k, m.keys.StartPause, m.keys.Reset, m.keys.Preset)
}

// SetDuration sets the countdown and returns the follow-up command.
func (m Model) SetDuration(seconds int) (Model, tea.Cmd, error) {
	if err := m.timer.SetDuration(seconds); err != nil {
		return m, nil, err
	}
	return m, m.sched.Pending(), nil
}

// Update handles ticks, break offers and timer keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		return m, m.sched.Handle(msg)

	case events.BreakOfferMsg:
		return m.openOffer(msg.Accept)
	}

	if m.offer != nil {
		return m.updateOffer(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.StartPause):
		if m.timer.Status().State == timer.Running {
			m.timer.Pause()
		} else {
			m.timer.Start()
		}
	case key.Matches(k, m.keys.Reset):
		m.timer.Reset()
	case key.Matches(k, m.keys.Preset):
		if minutes, ok := keys.Presets[k.String()]; ok {
			_ = m.timer.SetDuration(minutes * 60)
		}
	default:
		return m, nil
	}
	return m, m.sched.Pending()
}

func (m Model) openOffer(accept func()) (Model, tea.Cmd) {
	o := &breakOffer{take: true, accept: accept}
	o.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Session complete. Take a %d-minute break?", m.breakMinutes)).
			Affirmative("Break").
			Negative("Skip").
			Value(&o.take),
	)).WithWidth(max(m.width-8, 20)).WithShowHelp(false)
	m.offer = o
	return m, o.form.Init()
}

func (m Model) updateOffer(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.offer.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.offer.form = f
	}

	switch m.offer.form.State {
	case huh.StateCompleted:
		if m.offer.take {
			m.offer.accept()
		}
		m.offer = nil
		return m, m.sched.Pending()
	case huh.StateAborted:
		m.offer = nil
		return m, nil
	}
	return m, cmd
}

// View renders the panel.
func (m Model) View() string {
	st := m.timer.Status()
	inner := max(m.width-6, 10)

	label := "Focus"
	if st.Kind == timer.KindBreak {
		label = "Break"
	}

	m.bar.Width = inner
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(label),
		"",
		theme.ClockStyle.Render(timer.FormatClock(st.Remaining)),
		theme.TimerStateStyle(st.State.String()).Render(strings.ToUpper(st.State.String())),
		"",
		m.bar.ViewAs(st.Progress()),
		theme.HelpStyle.Render(fmt.Sprintf("of %s", timer.FormatClock(st.Total))),
	}
	if m.offer != nil {
		lines = append(lines, "", m.offer.form.View())
	}

	return theme.PanelStyle.
		Width(inner).
		Height(max(m.height-2, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
