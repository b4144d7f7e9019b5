package taskform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/dashboard"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/theme"
)

// SubmittedMsg carries the new task's fields.
type SubmittedMsg struct {
	Input dashboard.TaskInput
}

// CancelMsg is sent when the form is aborted.
type CancelMsg struct{}

// formBindings keeps field values on the heap so huh's Value pointers
// stay valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	category    string
	priority    string
	estimate    string
	dueDate     string
}

// Model is the new-task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates an empty form; call Start to show it.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start resets the fields, defaulting the due date to today.
func (m *Model) Start(today model.Date) tea.Cmd {
	*m.fb = formBindings{
		priority: string(model.PriorityMedium),
		dueDate:  today.String(),
	}
	m.form = m.build()
	return m.form.Init()
}

// Update forwards to the form and reports submit or cancel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		in, err := m.fb.input()
		if err != nil {
			return m, func() tea.Msg { return CancelMsg{} }
		}
		return m, func() tea.Msg { return SubmittedMsg{Input: in} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("New Task")
	return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) build() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Category").
			Placeholder("work, health, learning...").
			Value(&m.fb.category),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", string(model.PriorityHigh)),
				huh.NewOption("Medium", string(model.PriorityMedium)),
				huh.NewOption("Low", string(model.PriorityLow)),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Estimated hours").
			Placeholder("1").
			Value(&m.fb.estimate).
			Validate(validateOptionalHours),
		huh.NewInput().
			Title("Due date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
	)).WithWidth(m.formWidth()).WithHeight(max(m.height-4, 10))
}

// input converts the bound strings into a TaskInput.
func (fb *formBindings) input() (dashboard.TaskInput, error) {
	in := dashboard.TaskInput{
		Title:       strings.TrimSpace(fb.title),
		Description: strings.TrimSpace(fb.description),
		Category:    strings.TrimSpace(fb.category),
		Priority:    fb.priority,
	}
	if s := strings.TrimSpace(fb.estimate); s != "" {
		h, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return in, err
		}
		in.EstimatedTime = h
	}
	if s := strings.TrimSpace(fb.dueDate); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			return in, err
		}
		in.DueDate = d
	}
	return in, nil
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h <= 0 {
		return fmt.Errorf("enter a positive number of hours")
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
