package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/focusboard/internal/theme"
)

// Layout holds the terminal dimensions and the fixed header and status
// bar heights.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with one-line header and status bar.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height between header and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// TimerWidth is the width of the timer panel; the task list gets the rest.
func (l Layout) TimerWidth() int {
	return max(l.Width*2/5, 30)
}

// TaskWidth is the width left for the task list beside the timer panel.
func (l Layout) TaskWidth() int {
	return max(l.Width-l.TimerWidth(), 0)
}

// RenderHeader renders the app title on the left and the user summary
// right-aligned.
func (l Layout) RenderHeader(title, summary string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(summary)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, fill(theme.HeaderStyle, l.Width-lipgloss.Width(left)-lipgloss.Width(right)), right)
}

// RenderStatusBar renders the bottom bar with keyboard hints or a
// transient message.
func (l Layout) RenderStatusBar(text string) string {
	rendered := theme.StatusBarStyle.Render(text)
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, fill(theme.StatusBarStyle, l.Width-lipgloss.Width(rendered)))
}

// RenderSplit places the timer panel and the task list side by side.
func (l Layout) RenderSplit(timerPanel, tasks string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, timerPanel, tasks)
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().Height(l.ContentHeight()).MaxHeight(l.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// fill renders a blank run of width cells in style's background.
func fill(style lipgloss.Style, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(style.GetBackground()).
		Render("")
}
