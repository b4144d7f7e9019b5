package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"github.com/nhle/focusboard/internal/audio"
	"github.com/nhle/focusboard/internal/model"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a JSON backup of all data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "file to write (stdout when omitted)"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			data, err := e.store.ExportSnapshot(c.Context)
			if err != nil {
				return err
			}
			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, data, 0o600); err != nil {
					return fmt.Errorf("writing backup: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "Exported to %s\n", out)
				return nil
			}
			_, err = c.App.Writer.Write(append(data, '\n'))
			return err
		}),
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "restore a JSON backup",
		ArgsUsage: "<file>",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return errUsage(c)
			}
			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}
			if err := e.store.ImportSnapshot(c.Context, data); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Backup restored.")
			return nil
		}),
	}
}

func usageCommand() *cli.Command {
	return &cli.Command{
		Name:  "usage",
		Usage: "show how much space the stored data takes",
		Action: withEnv(func(c *cli.Context, e *env) error {
			u, err := e.store.StorageUsage(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, u)
			return nil
		}),
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "delete all stored data",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip the confirmation"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if !c.Bool("yes") {
				sure := false
				err := huh.NewConfirm().
					Title("Delete all goals, tasks, activities and settings?").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&sure).
					Run()
				if err != nil {
					return err
				}
				if !sure {
					return nil
				}
			}
			if err := e.store.ClearAll(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "All data cleared.")
			return nil
		}),
	}
}

func themeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "show or set the theme",
		ArgsUsage: "[light|dark]",
		Action: withEnv(func(c *cli.Context, e *env) error {
			name := c.Args().First()
			if name == "" {
				current, ok, err := e.store.StoredTheme(c.Context)
				if err != nil {
					return err
				}
				if !ok {
					current = e.cfg.Display.Theme
				}
				fmt.Fprintln(c.App.Writer, current)
				return nil
			}
			if name != model.ThemeLight && name != model.ThemeDark {
				return errUsage(c)
			}
			return e.store.SaveTheme(c.Context, name)
		}),
	}
}

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "show or change per-user settings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tone", Usage: "bell, chime, beep or notification"},
			&cli.StringFlag{Name: "sound", Usage: "on or off"},
			&cli.StringFlag{Name: "notifications", Usage: "on or off"},
			&cli.StringFlag{Name: "daily-reminders", Usage: "on or off"},
			&cli.StringFlag{Name: "weekly-reports", Usage: "on or off"},
			&cli.StringFlag{Name: "goal-notifications", Usage: "on or off"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			s, err := e.store.GetSettings(c.Context)
			if err != nil {
				return err
			}

			changed := false
			if tone := c.String("tone"); tone != "" {
				if _, err := audio.PatternFor(tone); err != nil {
					return err
				}
				s.Tone = tone
				changed = true
			}
			toggles := map[string]**bool{
				"sound":              &s.Sound,
				"notifications":      &s.Notifications,
				"daily-reminders":    &s.DailyReminders,
				"weekly-reports":     &s.WeeklyReports,
				"goal-notifications": &s.GoalNotifications,
			}
			for name, field := range toggles {
				if !c.IsSet(name) {
					continue
				}
				on, err := parseOnOff(c.String(name))
				if err != nil {
					return fmt.Errorf("--%s: %w", name, err)
				}
				*field = &on
				changed = true
			}

			if changed {
				if err := e.store.SaveSettings(c.Context, s); err != nil {
					return err
				}
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, string(out))
			return nil
		}),
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}
