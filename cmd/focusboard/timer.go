package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/app"
	"github.com/nhle/focusboard/internal/audio"
	"github.com/nhle/focusboard/internal/events"
	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/notify"
	"github.com/nhle/focusboard/internal/theme"
	"github.com/nhle/focusboard/internal/timer"
	"github.com/nhle/focusboard/internal/ui/timerview"
)

func timerCommand() *cli.Command {
	return &cli.Command{
		Name:  "timer",
		Usage: "run the focus timer (dashboard TUI by default)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "duration", Aliases: []string{"d"}, Usage: "session length as M or M:SS (default from config)"},
			&cli.BoolFlag{Name: "headless", Usage: "count down on stdout without the TUI"},
			&cli.BoolFlag{Name: "auto-break", Usage: "take the break without asking"},
		},
		Action: func(c *cli.Context) error {
			headless := c.Bool("headless")
			e, err := openEnv(c, !headless)
			if err != nil {
				return err
			}
			defer e.Close()

			user, err := e.currentUser(c.Context)
			if err != nil {
				return err
			}

			seconds := e.cfg.Timer.DefaultMinutes * 60
			if d := c.String("duration"); d != "" {
				if seconds, err = timer.ParseClock(d); err != nil {
					return err
				}
			}

			settings, err := e.store.GetSettings(c.Context)
			if err != nil {
				e.logger.Warn("settings unreadable, using defaults", zap.Error(err))
			}
			r := &timerRun{
				env:       e,
				user:      user,
				settings:  settings,
				seconds:   seconds,
				autoBreak: c.Bool("auto-break") || e.cfg.Timer.AutoBreak,
			}
			if headless {
				return r.headless(c)
			}
			return r.tui(c.Context)
		},
	}
}

// timerRun wires one timer session to the environment.
type timerRun struct {
	env       *env
	user      model.User
	settings  model.Settings
	seconds   int
	autoBreak bool
}

// capabilities returns the options shared by both front ends. Notifications
// and bells are written to out.
func (r *timerRun) capabilities(ctx context.Context, out io.Writer, player audio.Player) ([]timer.Option, error) {
	perm, err := notify.ParsePermission(r.env.cfg.Timer.NotificationPermission)
	if err != nil {
		return nil, err
	}
	logger := r.env.logger

	record := func(s timer.Session) {
		if err := r.env.dash.RecordSession(ctx, r.user.ID, s); err != nil {
			logger.Warn("session not recorded", zap.Error(err))
		}
	}

	return []timer.Option{
		timer.WithContext(ctx),
		timer.WithLogger(logger),
		timer.WithDuration(r.seconds),
		timer.WithConfig(timer.ConfigFrom(r.env.cfg.Timer, r.settings)),
		timer.WithTonePlayer(player),
		timer.WithNotifier(notify.NewTerminal(out, perm, logger)),
		timer.WithRecorder(r.env.stats),
		timer.WithCompletionHook(record),
	}, nil
}

func (r *timerRun) player(out io.Writer) audio.Player {
	return audio.Fallback{
		audio.NewCommandPlayer(audio.DefaultCacheDir(), r.env.logger),
		audio.NewBellPlayer(out),
	}
}

func (r *timerRun) tui(ctx context.Context) error {
	sched := &timerview.Scheduler{}
	bridge := events.New()
	defer bridge.Close()

	// The program renders through out too, so escape sequences never
	// split a frame.
	out := notify.NewSharedOutput(os.Stdout)
	opts, err := r.capabilities(ctx, out, audio.Async{Player: r.player(out), Logger: r.env.logger})
	if err != nil {
		return err
	}
	var prompter timer.BreakPrompter = bridge
	if r.autoBreak {
		prompter = timer.AutoBreak
	}
	opts = append(opts,
		timer.WithScheduler(sched),
		timer.WithPrompter(prompter),
		timer.WithCompletionHook(bridge.SessionDone),
	)
	t := timer.New(opts...)

	themeName, ok, err := r.env.store.StoredTheme(ctx)
	if err != nil || !ok {
		themeName = r.env.cfg.Display.Theme
	}
	theme.Apply(themeName)

	root := app.New(app.Deps{
		User:         r.user,
		Timer:        t,
		Scheduler:    sched,
		Bridge:       bridge,
		Dashboard:    r.env.dash,
		Stats:        r.env.stats,
		Settings:     r.env.store,
		TimerConfig:  r.env.cfg.Timer,
		UserSettings: r.settings,
		Logger:       r.env.logger,
	})
	_, err = tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out)).Run()
	return err
}

func (r *timerRun) headless(c *cli.Context) error {
	ctx := c.Context
	finished := make(chan timer.Session, 4)
	offered := make(chan struct{}, 1)

	opts, err := r.capabilities(ctx, os.Stdout, r.player(os.Stdout))
	if err != nil {
		return err
	}
	opts = append(opts, timer.WithCompletionHook(func(s timer.Session) { finished <- s }))

	var prompter timer.BreakPrompter
	switch {
	case r.autoBreak:
		prompter = timer.AutoBreak
	case isatty.IsTerminal(os.Stdin.Fd()):
		prompter = confirmBreak(r.env.cfg.Timer.BreakMinutes)
	}
	if prompter != nil {
		inner := prompter
		opts = append(opts, timer.WithPrompter(timer.BreakPrompterFunc(func(ctx context.Context, accept func()) {
			defer func() { offered <- struct{}{} }()
			inner.PromptBreak(ctx, accept)
		})))
	}

	t := timer.New(opts...)
	threshold := timer.ConfigFrom(r.env.cfg.Timer, r.settings).BreakThreshold
	t.Start()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	w := c.App.Writer
	printStatus(w, t.Status())

	for {
		select {
		case <-ctx.Done():
			t.Pause()
			fmt.Fprintln(w)
			return nil
		case <-ticker.C:
			printStatus(w, t.Status())
		case s := <-finished:
			fmt.Fprintf(w, "\r%s session complete (%s).\n", s.Kind, timer.FormatClock(int(s.Total.Seconds())))
			if s.Kind == timer.KindBreak || prompter == nil || threshold <= 0 || s.Total < threshold {
				return nil
			}
			select {
			case <-offered:
			case <-ctx.Done():
				return nil
			}
			if t.Status().State != timer.Running {
				return nil
			}
		}
	}
}

func printStatus(w io.Writer, st timer.Status) {
	fmt.Fprintf(w, "\r%s %-9s", timer.FormatClock(st.Remaining), st.State)
}

// confirmBreak asks on the terminal whether to take the break.
func confirmBreak(minutes int) timer.BreakPrompter {
	return timer.BreakPrompterFunc(func(_ context.Context, accept func()) {
		take := true
		err := huh.NewConfirm().
			Title(fmt.Sprintf("\nSession complete. Take a %d-minute break?", minutes)).
			Affirmative("Break").
			Negative("Skip").
			Value(&take).
			Run()
		if err == nil && take {
			accept()
		}
	})
}
