// Package stats derives dashboard statistics from the stored goals, tasks
// and activities. Nothing here is cached: every call recomputes from the
// store's current contents.
package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/model"
)

// Source is the read side of the store the aggregator needs.
type Source interface {
	GetGoals(ctx context.Context, userID string) ([]model.Goal, error)
	GetTasks(ctx context.Context, userID string) ([]model.Task, error)
	GetActivities(ctx context.Context, userID string) ([]model.Activity, error)
	FocusHoursOn(ctx context.Context, day model.Date) (float64, error)
}

// Sink is the write side used by the focus-time update path.
type Sink interface {
	AddFocusTime(ctx context.Context, day model.Date, hours float64) error
}

// Store combines Source and Sink; *store.Store satisfies it.
type Store interface {
	Source
	Sink
}

// UserStats is the per-user summary shown on the dashboard.
type UserStats struct {
	TotalGoals        int     `json:"totalGoals"`
	CompletedGoals    int     `json:"completedGoals"`
	TotalTasks        int     `json:"totalTasks"`
	CompletedTasks    int     `json:"completedTasks"`
	TotalActivities   int     `json:"totalActivities"`
	Streak            int     `json:"streak"`
	ProductivityScore int     `json:"productivityScore"`
	FocusHoursToday   float64 `json:"focusHoursToday"`
}

// Aggregator computes statistics over a Store.
type Aggregator struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// New creates an Aggregator. A nil clock means time.Now; a nil logger
// discards output.
func New(s Store, now func() time.Time, logger *zap.Logger) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{store: s, now: now, logger: logger.Named("stats")}
}

// UserStats recomputes the summary for userID.
func (a *Aggregator) UserStats(ctx context.Context, userID string) (UserStats, error) {
	goals, err := a.store.GetGoals(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("loading goals: %w", err)
	}
	tasks, err := a.store.GetTasks(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("loading tasks: %w", err)
	}
	activities, err := a.store.GetActivities(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("loading activities: %w", err)
	}

	now := a.now()
	focus, err := a.store.FocusHoursOn(ctx, model.DateOf(now))
	if err != nil {
		return UserStats{}, fmt.Errorf("loading focus time: %w", err)
	}

	st := UserStats{
		TotalGoals:        len(goals),
		TotalTasks:        len(tasks),
		TotalActivities:   len(activities),
		Streak:            Streak(tasks, now),
		ProductivityScore: ProductivityScore(goals, tasks),
		FocusHoursToday:   focus,
	}
	for _, g := range goals {
		if g.Completed() {
			st.CompletedGoals++
		}
	}
	for _, t := range tasks {
		if t.Completed {
			st.CompletedTasks++
		}
	}
	return st, nil
}

// RecordFocusTime credits hours of focus to the calendar day of at.
func (a *Aggregator) RecordFocusTime(ctx context.Context, at time.Time, hours float64) error {
	day := model.DateOf(at)
	if err := a.store.AddFocusTime(ctx, day, hours); err != nil {
		return fmt.Errorf("recording focus time for %s: %w", day, err)
	}
	a.logger.Info("focus time recorded", zap.String("day", day.String()), zap.Float64("hours", hours))
	return nil
}

// ProductivityScore blends mean goal progress (weight 0.6) with the task
// completion ratio (weight 0.4) on a 0-100 scale. Empty collections count
// as zero.
func ProductivityScore(goals []model.Goal, tasks []model.Task) int {
	progress := 0
	for _, g := range goals {
		progress += g.Progress
	}
	meanProgress := float64(progress) / float64(max(len(goals), 1))

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	ratio := float64(completed) / float64(max(len(tasks), 1))

	return int(math.Round(meanProgress*0.6 + ratio*100*0.4))
}

// Streak looks back two days only: 2 when some task was completed (or
// created) both today and yesterday, 1 when only today, 0 otherwise.
func Streak(tasks []model.Task, now time.Time) int {
	today := model.DateOf(now)
	yesterday := model.DateOf(now.AddDate(0, 0, -1))

	var hasToday, hasYesterday bool
	for _, t := range tasks {
		day := model.DateOf(t.ActivityTime().In(now.Location()))
		switch day {
		case today:
			hasToday = true
		case yesterday:
			hasYesterday = true
		}
	}

	switch {
	case hasToday && hasYesterday:
		return 2
	case hasToday:
		return 1
	default:
		return 0
	}
}
