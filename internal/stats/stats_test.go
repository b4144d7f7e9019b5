package stats_test

import (
	"context"
	"math"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/stats"
	"github.com/nhle/focusboard/internal/store"
	"github.com/nhle/focusboard/tests/testutil"
)

var now = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func TestProductivityScore(t *testing.T) {
	tests := []struct {
		name  string
		goals []int
		tasks []bool
		want  int
	}{
		{name: "empty", want: 0},
		{name: "all goals done, no tasks", goals: []int{100, 100}, want: 60},
		{name: "no goals, all tasks done", tasks: []bool{true, true}, want: 40},
		{name: "everything done", goals: []int{100}, tasks: []bool{true}, want: 100},
		{name: "half and half", goals: []int{50}, tasks: []bool{true, false}, want: 50},
		{name: "rounds to nearest", goals: []int{33}, tasks: []bool{true, false, false}, want: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stats.ProductivityScore(goalsWithProgress(tt.goals...), tasksWithCompletion(tt.tasks...))
			if got != tt.want {
				t.Errorf("ProductivityScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProductivityScoreMonotonicInGoalProgress(t *testing.T) {
	tasks := tasksWithCompletion(true, false, false)
	prev := math.MinInt
	for p := 0; p <= 100; p++ {
		score := stats.ProductivityScore(goalsWithProgress(p, 40), tasks)
		if score < prev {
			t.Fatalf("score dropped from %d to %d at progress %d", prev, score, p)
		}
		if score < 0 || score > 100 {
			t.Fatalf("score %d out of range at progress %d", score, p)
		}
		prev = score
	}
}

func TestStreak(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)

	tests := []struct {
		name  string
		tasks []model.Task
		want  int
	}{
		{name: "no tasks", want: 0},
		{name: "old tasks only", tasks: []model.Task{{CreatedAt: lastWeek}}, want: 0},
		{name: "yesterday only", tasks: []model.Task{{CreatedAt: yesterday}}, want: 0},
		{name: "today only", tasks: []model.Task{{CreatedAt: now}}, want: 1},
		{name: "today and yesterday", tasks: []model.Task{{CreatedAt: now}, {CreatedAt: yesterday}}, want: 2},
		{
			name:  "completion time wins over creation",
			tasks: []model.Task{{CreatedAt: lastWeek, Completed: true, CompletedAt: &now}, {CreatedAt: yesterday}},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stats.Streak(tt.tasks, now); got != tt.want {
				t.Errorf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUserStatsCountsPerUser(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	completedAt := now.Add(-time.Hour)
	tasks := []model.Task{
		{ID: "task-1", UserID: "U", CreatedAt: now.Add(-2 * time.Hour), Completed: true, CompletedAt: &completedAt},
		{ID: "task-2", UserID: "U", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "task-3", UserID: "other", CreatedAt: now},
	}
	for _, task := range tasks {
		if _, err := s.SaveTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}
	for _, g := range []model.Goal{
		{ID: "goal-1", UserID: "U", Progress: 100},
		{ID: "goal-2", UserID: "U", Progress: 0},
	} {
		if _, err := s.SaveGoal(ctx, g); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.SaveActivity(ctx, model.Activity{ID: "activity-1", UserID: "U", Timestamp: now}); err != nil {
		t.Fatal(err)
	}

	agg := stats.New(s, testutil.FixedClock(now), zaptest.NewLogger(t))
	got, err := agg.UserStats(ctx, "U")
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}

	want := stats.UserStats{
		TotalGoals:        2,
		CompletedGoals:    1,
		TotalTasks:        2,
		CompletedTasks:    1,
		TotalActivities:   1,
		Streak:            1,
		ProductivityScore: 50,
	}
	if got != want {
		t.Errorf("UserStats = %+v, want %+v", got, want)
	}
}

func TestRecordFocusTimeFeedsUserStats(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	agg := stats.New(s, testutil.FixedClock(now), nil)

	if err := agg.RecordFocusTime(ctx, now, 1500.0/3600); err != nil {
		t.Fatal(err)
	}

	got, err := agg.UserStats(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.FocusHoursToday-0.41666) > 1e-4 {
		t.Errorf("FocusHoursToday = %v, want ~0.4167", got.FocusHoursToday)
	}
}

func TestUserStatsSurfacesCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	if err := kv.Set(ctx, store.KeyTasks, "[{"); err != nil {
		t.Fatal(err)
	}

	agg := stats.New(store.New(kv), testutil.FixedClock(now), nil)
	if _, err := agg.UserStats(ctx, "U"); err == nil {
		t.Fatal("expected an error for corrupt tasks")
	}
}

func goalsWithProgress(progress ...int) []model.Goal {
	goals := make([]model.Goal, len(progress))
	for i, p := range progress {
		goals[i] = model.Goal{Progress: p}
	}
	return goals
}

func tasksWithCompletion(done ...bool) []model.Task {
	tasks := make([]model.Task, len(done))
	for i, d := range done {
		tasks[i] = model.Task{Completed: d}
	}
	return tasks
}
