package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v2"

	"github.com/nhle/focusboard/internal/dashboard"
	"github.com/nhle/focusboard/internal/model"
)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func goalCommand() *cli.Command {
	return &cli.Command{
		Name:  "goal",
		Usage: "manage goals",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "add a goal",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "priority", Usage: "low, medium or high", Value: "medium"},
					&cli.StringFlag{Name: "deadline", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "target", Usage: "what done looks like"},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					user, err := e.currentUser(c.Context)
					if err != nil {
						return err
					}
					if c.NArg() == 0 {
						return errUsage(c)
					}
					deadline, err := model.ParseDate(c.String("deadline"))
					if err != nil {
						return err
					}
					goal, err := e.dash.CreateGoal(c.Context, user.ID, dashboard.GoalInput{
						Title:       strings.Join(c.Args().Slice(), " "),
						Description: c.String("description"),
						Category:    c.String("category"),
						Priority:    c.String("priority"),
						Deadline:    deadline,
						Target:      c.String("target"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Added goal %s\n", goal.ID)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list goals",
				Action: withEnv(func(c *cli.Context, e *env) error {
					user, err := e.currentUser(c.Context)
					if err != nil {
						return err
					}
					goals, err := e.dash.Goals(c.Context, user.ID)
					if err != nil {
						return err
					}
					now := time.Now()
					rows := make([][]string, len(goals))
					for i, g := range goals {
						due := g.Deadline.String()
						if days, ok := g.DaysRemaining(now); ok {
							due = fmt.Sprintf("%s (%dd)", due, days)
						}
						rows[i] = []string{g.ID, g.Title, string(g.Priority), fmt.Sprintf("%d%%", g.Progress), due}
					}
					fmt.Fprintln(c.App.Writer, renderTable([]string{"ID", "Title", "Priority", "Progress", "Deadline"}, rows))
					return nil
				}),
			},
			{
				Name:      "progress",
				Usage:     "set a goal's progress (0-100)",
				ArgsUsage: "<id> <percent>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					if c.NArg() != 2 {
						return errUsage(c)
					}
					pct, err := strconv.Atoi(strings.TrimSuffix(c.Args().Get(1), "%"))
					if err != nil {
						return fmt.Errorf("percent: %w", err)
					}
					goal, err := e.dash.SetGoalProgress(c.Context, c.Args().First(), pct)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s is %d%% done\n", goal.Title, goal.Progress)
					return nil
				}),
			},
			{
				Name:      "rm",
				Usage:     "delete a goal",
				ArgsUsage: "<id>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					if c.NArg() != 1 {
						return errUsage(c)
					}
					return e.dash.DeleteGoal(c.Context, c.Args().First())
				}),
			},
		},
	}
}

func taskCommand() *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "manage tasks",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "add a task",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "priority", Usage: "low, medium or high", Value: "medium"},
					&cli.StringFlag{Name: "due", Usage: "YYYY-MM-DD, or 'today'"},
					&cli.Float64Flag{Name: "hours", Usage: "estimated hours", Value: dashboard.DefaultEstimatedHours},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					user, err := e.currentUser(c.Context)
					if err != nil {
						return err
					}
					if c.NArg() == 0 {
						return errUsage(c)
					}
					due := model.DateOf(time.Now())
					if s := c.String("due"); s != "today" && s != "" {
						if due, err = model.ParseDate(s); err != nil {
							return err
						}
					}
					task, err := e.dash.CreateTask(c.Context, user.ID, dashboard.TaskInput{
						Title:         strings.Join(c.Args().Slice(), " "),
						Description:   c.String("description"),
						Category:      c.String("category"),
						Priority:      c.String("priority"),
						DueDate:       due,
						EstimatedTime: c.Float64("hours"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Added task %s\n", task.ID)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list tasks",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "today", Usage: "only tasks due today"},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					user, err := e.currentUser(c.Context)
					if err != nil {
						return err
					}
					var tasks []model.Task
					if c.Bool("today") {
						tasks, err = e.dash.TodayTasks(c.Context, user.ID)
					} else {
						tasks, err = e.dash.Tasks(c.Context, user.ID)
					}
					if err != nil {
						return err
					}
					rows := make([][]string, len(tasks))
					for i, t := range tasks {
						done := " "
						if t.Completed {
							done = "x"
						}
						rows[i] = []string{done, t.ID, t.Title, string(t.Priority), t.DueDate.String(), strconv.FormatFloat(t.EstimatedTime, 'f', -1, 64)}
					}
					fmt.Fprintln(c.App.Writer, renderTable([]string{"", "ID", "Title", "Priority", "Due", "Hours"}, rows))
					return nil
				}),
			},
			{
				Name:      "done",
				Usage:     "toggle a task between open and completed",
				ArgsUsage: "<id>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					if c.NArg() != 1 {
						return errUsage(c)
					}
					task, err := e.dash.ToggleTaskComplete(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					state := "reopened"
					if task.Completed {
						state = "completed"
					}
					fmt.Fprintf(c.App.Writer, "%s %s\n", task.Title, state)
					return nil
				}),
			},
			{
				Name:      "rm",
				Usage:     "delete a task",
				ArgsUsage: "<id>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					if c.NArg() != 1 {
						return errUsage(c)
					}
					return e.dash.DeleteTask(c.Context, c.Args().First())
				}),
			},
		},
	}
}

func activityCommand() *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "show or clear the activity log",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show recent activity, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "0 shows everything"},
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					user, err := e.currentUser(c.Context)
					if err != nil {
						return err
					}
					activities, err := e.dash.RecentActivities(c.Context, user.ID, c.Int("limit"))
					if err != nil {
						return err
					}
					for _, a := range activities {
						fmt.Fprintf(c.App.Writer, "%s  %s\n", a.Timestamp.Local().Format("2006-01-02 15:04"), a.Message)
					}
					return nil
				}),
			},
			{
				Name:  "clear",
				Usage: "delete every activity",
				Action: withEnv(func(c *cli.Context, e *env) error {
					return e.store.ClearActivities(c.Context)
				}),
			},
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "show dashboard statistics",
		Action: withEnv(func(c *cli.Context, e *env) error {
			user, err := e.currentUser(c.Context)
			if err != nil {
				return err
			}
			s, err := e.stats.UserStats(c.Context, user.ID)
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Goals", fmt.Sprintf("%d / %d completed", s.CompletedGoals, s.TotalGoals)},
				{"Tasks", fmt.Sprintf("%d / %d completed", s.CompletedTasks, s.TotalTasks)},
				{"Activities", strconv.Itoa(s.TotalActivities)},
				{"Streak", fmt.Sprintf("%d days", s.Streak)},
				{"Productivity", fmt.Sprintf("%d", s.ProductivityScore)},
				{"Focus today", fmt.Sprintf("%.2f h", s.FocusHoursToday)},
			}
			fmt.Fprintln(c.App.Writer, renderTable([]string{"Stat", "Value"}, rows))
			return nil
		}),
	}
}
