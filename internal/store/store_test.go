package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/store"
	"github.com/nhle/focusboard/tests/testutil"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newGoal(id, userID string, progress int) model.Goal {
	return model.Goal{
		ID:        id,
		UserID:    userID,
		Title:     "Goal " + id,
		Category:  "health",
		Priority:  model.PriorityMedium,
		Deadline:  model.Date{Year: 2026, Month: time.June, Day: 1},
		Progress:  progress,
		CreatedAt: testNow,
	}
}

func newTask(id, userID string, due model.Date) model.Task {
	return model.Task{
		ID:            id,
		UserID:        userID,
		Title:         "Task " + id,
		Category:      "work",
		Priority:      model.PriorityHigh,
		DueDate:       due,
		EstimatedTime: 1.5,
		CreatedAt:     testNow,
	}
}

func TestSaveAndGetGoalsPreservesOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	for _, g := range []model.Goal{
		newGoal("goal-3", "u1", 10),
		newGoal("goal-1", "u2", 20),
		newGoal("goal-2", "u1", 30),
	} {
		saved, err := s.SaveGoal(ctx, g)
		if err != nil {
			t.Fatalf("SaveGoal(%s): %v", g.ID, err)
		}
		if !reflect.DeepEqual(saved, g) {
			t.Errorf("SaveGoal returned %+v, want %+v", saved, g)
		}
	}

	all, err := s.GetGoals(ctx, "")
	if err != nil {
		t.Fatalf("GetGoals: %v", err)
	}
	if got := goalIDs(all); !reflect.DeepEqual(got, []string{"goal-3", "goal-1", "goal-2"}) {
		t.Errorf("GetGoals order = %v", got)
	}

	mine, err := s.GetGoals(ctx, "u1")
	if err != nil {
		t.Fatalf("GetGoals(u1): %v", err)
	}
	if got := goalIDs(mine); !reflect.DeepEqual(got, []string{"goal-3", "goal-2"}) {
		t.Errorf("GetGoals(u1) = %v", got)
	}
}

func TestSaveGoalRejectsOutOfRangeProgress(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	for _, p := range []int{-1, 101} {
		_, err := s.SaveGoal(ctx, newGoal("goal-x", "u1", p))
		if !errors.Is(err, store.ErrInvalidRecord) {
			t.Errorf("progress %d: err = %v, want ErrInvalidRecord", p, err)
		}
	}

	goals, _ := s.GetGoals(ctx, "")
	if len(goals) != 0 {
		t.Errorf("invalid goals were stored: %v", goals)
	}
}

func TestUpdateGoalMergesFields(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	orig := newGoal("goal-1", "u1", 0)
	orig.Description = "keep me"
	if _, err := s.SaveGoal(ctx, orig); err != nil {
		t.Fatal(err)
	}

	progress := 50
	title := "Renamed"
	updated, err := s.UpdateGoal(ctx, "goal-1", model.GoalPatch{Progress: &progress, Title: &title})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}

	want := orig
	want.Progress = 50
	want.Title = "Renamed"
	if !reflect.DeepEqual(updated, want) {
		t.Errorf("UpdateGoal = %+v, want %+v", updated, want)
	}

	stored, err := s.GetGoalByID(ctx, "goal-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stored, want) {
		t.Errorf("stored = %+v, want %+v", stored, want)
	}
}

func TestUpdateMissingGoalIsNotFoundAndWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if _, err := s.SaveGoal(ctx, newGoal("goal-1", "u1", 10)); err != nil {
		t.Fatal(err)
	}
	before, _ := s.GetGoals(ctx, "")

	progress := 50
	_, err := s.UpdateGoal(ctx, "goal-nonexistent", model.GoalPatch{Progress: &progress})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	after, _ := s.GetGoals(ctx, "")
	if !reflect.DeepEqual(before, after) {
		t.Errorf("goals changed: before %+v after %+v", before, after)
	}
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	for _, id := range []string{"goal-1", "goal-2"} {
		if _, err := s.SaveGoal(ctx, newGoal(id, "u1", 0)); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeleteGoal(ctx, "goal-1"); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if err := s.DeleteGoal(ctx, "goal-missing"); err != nil {
		t.Fatalf("DeleteGoal(missing) should be a no-op, got %v", err)
	}

	goals, _ := s.GetGoals(ctx, "")
	if got := goalIDs(goals); !reflect.DeepEqual(got, []string{"goal-2"}) {
		t.Errorf("remaining goals = %v", got)
	}
}

func TestUpdateTaskManagesCompletedAt(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t, store.WithClock(testutil.FixedClock(testNow)))

	if _, err := s.SaveTask(ctx, newTask("task-1", "u1", model.Date{})); err != nil {
		t.Fatal(err)
	}

	done := true
	task, err := s.UpdateTask(ctx, "task-1", model.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(testNow) {
		t.Errorf("completed task = %+v, want completedAt %v", task, testNow)
	}

	open := false
	task, err = s.UpdateTask(ctx, "task-1", model.TaskPatch{Completed: &open})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if task.Completed || task.CompletedAt != nil {
		t.Errorf("reopened task = %+v, want no completedAt", task)
	}

	// Completing an already completed task keeps the original time.
	later := testutil.NewTestStore(t, store.WithClock(testutil.FixedClock(testNow.Add(30*24*time.Hour))))
	finished := newTask("task-2", "u1", model.Date{})
	finished.Completed = true
	at := testNow.Add(-2 * time.Hour)
	finished.CompletedAt = &at
	if _, err := later.SaveTask(ctx, finished); err != nil {
		t.Fatal(err)
	}
	task, err = later.UpdateTask(ctx, "task-2", model.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(at) {
		t.Errorf("re-completed task completedAt = %v, want %v", task.CompletedAt, at)
	}
}

func TestSaveTaskRejectsCompletedWithoutTimestamp(t *testing.T) {
	s := testutil.NewTestStore(t)

	task := newTask("task-1", "u1", model.Date{})
	task.Completed = true
	if _, err := s.SaveTask(context.Background(), task); !errors.Is(err, store.ErrInvalidRecord) {
		t.Errorf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestGetTasksByDate(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	day := model.Date{Year: 2026, Month: time.March, Day: 14}
	for _, task := range []model.Task{
		newTask("task-1", "u1", day),
		newTask("task-2", "u1", day.AddDays(1)),
		newTask("task-3", "u2", day),
		newTask("task-4", "u1", model.Date{}),
	} {
		if _, err := s.SaveTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		userID string
		want   []string
	}{
		{name: "all users", userID: "", want: []string{"task-1", "task-3"}},
		{name: "one user", userID: "u1", want: []string{"task-1"}},
		{name: "nobody", userID: "u9", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.GetTasksByDate(ctx, day, tt.userID)
			if err != nil {
				t.Fatal(err)
			}
			if got := taskIDs(tasks); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetTasksByDate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorruptCollectionSurfacesError(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := store.New(kv)

	if err := kv.Set(ctx, store.KeyGoals, "{not json"); err != nil {
		t.Fatal(err)
	}

	goals, err := s.GetGoals(ctx, "")
	if !errors.Is(err, store.ErrCorruptStoreData) {
		t.Fatalf("err = %v, want ErrCorruptStoreData", err)
	}
	var cde *store.CorruptDataError
	if !errors.As(err, &cde) || cde.Key != store.KeyGoals {
		t.Errorf("err = %#v, want CorruptDataError for %q", err, store.KeyGoals)
	}
	if goals == nil || len(goals) != 0 {
		t.Errorf("corrupt read returned %v, want empty collection", goals)
	}

	if _, err := s.SaveGoal(ctx, newGoal("goal-1", "u1", 0)); !errors.Is(err, store.ErrCorruptStoreData) {
		t.Errorf("SaveGoal over corrupt data: err = %v", err)
	}
	raw, _, _ := kv.Get(ctx, store.KeyGoals)
	if raw != "{not json" {
		t.Errorf("corrupt value was overwritten with %q", raw)
	}
}

func TestCurrentUserNeverStoresPassword(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	u := model.User{ID: "user-1", Email: "a@b.co", Password: "secret123", Joined: testNow}
	if err := s.SaveUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetUser(ctx)
	if err != nil || got == nil {
		t.Fatalf("GetUser = %v, %v", got, err)
	}
	if got.Password != "" {
		t.Errorf("current user carries password %q", got.Password)
	}

	if err := s.ClearUser(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.GetUser(ctx); got != nil {
		t.Errorf("GetUser after ClearUser = %+v", got)
	}
}

func TestFindUserByEmail(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if _, err := s.AddUser(ctx, model.User{ID: "user-1", Email: "Ann@Example.com"}); err != nil {
		t.Fatal(err)
	}

	u, err := s.FindUserByEmail(ctx, "ann@example.com")
	if err != nil || u.ID != "user-1" {
		t.Errorf("FindUserByEmail = %+v, %v", u, err)
	}
	if _, err := s.FindUserByEmail(ctx, "bob@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestSettingsAndTheme(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	theme, err := s.GetTheme(ctx)
	if err != nil || theme != model.ThemeLight {
		t.Errorf("default theme = %q, %v", theme, err)
	}
	if _, ok, _ := s.StoredTheme(ctx); ok {
		t.Error("StoredTheme reports a theme before one was saved")
	}
	if err := s.SaveTheme(ctx, model.ThemeDark); err != nil {
		t.Fatal(err)
	}
	if theme, _ := s.GetTheme(ctx); theme != model.ThemeDark {
		t.Errorf("theme = %q, want dark", theme)
	}
	if theme, ok, _ := s.StoredTheme(ctx); !ok || theme != model.ThemeDark {
		t.Errorf("StoredTheme = %q, %v", theme, ok)
	}

	off := false
	want := model.Settings{Theme: model.ThemeDark, Sound: &off, Tone: model.ToneChime}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}

func TestAddFocusTimeAccumulates(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	day := model.Date{Year: 2026, Month: time.March, Day: 14}
	for i := 0; i < 2; i++ {
		if err := s.AddFocusTime(ctx, day, 0.5); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AddFocusTime(ctx, day.AddDays(-1), 0.25); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetFocusTime(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"2026-03-14": 1.0, "2026-03-13": 0.25}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("focus time = %v, want %v", got, want)
	}
}

func TestActivitiesAppendAndClear(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	for _, a := range []model.Activity{
		{ID: "activity-1", UserID: "u1", Type: model.ActivityTaskCreated, Timestamp: testNow},
		{ID: "activity-2", UserID: "u2", Type: model.ActivityGoalCreated, Timestamp: testNow},
	} {
		if _, err := s.SaveActivity(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	mine, _ := s.GetActivities(ctx, "u1")
	if len(mine) != 1 || mine[0].ID != "activity-1" {
		t.Errorf("GetActivities(u1) = %+v", mine)
	}

	if err := s.ClearActivities(ctx); err != nil {
		t.Fatal(err)
	}
	all, _ := s.GetActivities(ctx, "")
	if len(all) != 0 {
		t.Errorf("activities after clear = %+v", all)
	}
}

func goalIDs(goals []model.Goal) []string {
	ids := make([]string, 0, len(goals))
	for _, g := range goals {
		ids = append(ids, g.ID)
	}
	return ids
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
