package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/theme"
)

// TaskItem adapts a model.Task to bubbles/list.
type TaskItem struct {
	Task model.Task
}

func (i TaskItem) FilterValue() string { return i.Task.Title }

// ItemDelegate draws one task per line.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int                             { return 1 }
func (d ItemDelegate) Spacing() int                            { return 0 }
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	line := renderLine(ti.Task)
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

// renderLine formats the checkbox, priority, title and estimate.
func renderLine(t model.Task) string {
	box := "○"
	if t.Completed {
		box = "✓"
	}
	pri := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	parts := []string{box, pri, t.Title}
	if t.EstimatedTime > 0 {
		parts = append(parts, theme.HelpStyle.Render(formatHours(t.EstimatedTime)))
	}
	line := strings.Join(parts, " ")
	if t.Completed {
		line = theme.DimmedStyle.Render(line)
	}
	return line
}

func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "H"
	case model.PriorityMedium:
		return "M"
	case model.PriorityLow:
		return "L"
	default:
		return "?"
	}
}

func formatHours(h float64) string {
	if h == float64(int(h)) {
		return fmt.Sprintf("%dh", int(h))
	}
	return fmt.Sprintf("%.1fh", h)
}
