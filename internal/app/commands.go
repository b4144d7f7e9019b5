package app

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/audio"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/theme"
	"github.com/nhle/focusboard/internal/timer"
	"github.com/nhle/focusboard/internal/ui/command"
)

// executeCommand runs a command palette entry.
func (m Model) executeCommand(c command.CommandMsg) (tea.Model, tea.Cmd) {
	arg := ""
	if len(c.Args) > 0 {
		arg = c.Args[0]
	}

	switch c.Name {
	case "quit", "q":
		return m.quit()

	case "timer", "t":
		seconds, err := timer.ParseClock(arg)
		if err != nil {
			return m, m.setFlash("usage: timer <minutes>[:<seconds>]")
		}
		var cmd tea.Cmd
		m.timerView, cmd, err = m.timerView.SetDuration(seconds)
		if err != nil {
			return m, m.setFlash(err.Error())
		}
		return m, tea.Batch(cmd, m.setFlash("Timer set to "+timer.FormatClock(seconds)))

	case "tone":
		if !slices.Contains(audio.Tones(), arg) {
			return m, m.setFlash(fmt.Sprintf("unknown tone %q", arg))
		}
		m.deps.UserSettings.Tone = arg
		return m, m.saveSettings("Tone set to " + arg)

	case "sound", "notify":
		on, ok := parseToggle(arg)
		if !ok {
			return m, m.setFlash("usage: " + c.Name + " on|off")
		}
		if c.Name == "sound" {
			m.deps.UserSettings.Sound = &on
		} else {
			m.deps.UserSettings.Notifications = &on
		}
		return m, m.saveSettings(fmt.Sprintf("%s %s", c.Name, arg))

	case "theme":
		if arg != model.ThemeLight && arg != model.ThemeDark {
			return m, m.setFlash("usage: theme light|dark")
		}
		theme.Apply(arg)
		m.deps.UserSettings.Theme = arg
		if err := m.deps.Settings.SaveTheme(context.Background(), arg); err != nil {
			m.logger.Warn("saving theme failed", zap.Error(err))
		}
		return m, m.saveSettings("Theme set to " + arg)

	case "stats":
		return m, tea.Batch(m.loadStats(), m.taskList.LoadTasks())

	default:
		return m, m.setFlash(fmt.Sprintf("unknown command %q", c.Name))
	}
}

// saveSettings applies the user settings to the timer and persists them.
func (m *Model) saveSettings(done string) tea.Cmd {
	m.deps.Timer.SetConfig(timer.ConfigFrom(m.deps.TimerConfig, m.deps.UserSettings))

	if err := m.deps.Settings.SaveSettings(context.Background(), m.deps.UserSettings); err != nil {
		m.logger.Warn("saving settings failed", zap.Error(err))
		return m.setFlash("Settings not saved: " + err.Error())
	}
	return m.setFlash(done)
}

func parseToggle(s string) (bool, bool) {
	switch s {
	case "on", "true", "yes":
		return true, true
	case "off", "false", "no":
		return false, true
	}
	return false, false
}
