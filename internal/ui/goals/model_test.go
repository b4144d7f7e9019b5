package goals

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusboard/internal/dashboard"
	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/model"
)

type fakeService struct {
	goals    []model.Goal
	progress map[string]int
	deleted  []string
}

func (f *fakeService) Goals(context.Context, string) ([]model.Goal, error) {
	return f.goals, nil
}

func (f *fakeService) CreateGoal(_ context.Context, userID string, in dashboard.GoalInput) (model.Goal, error) {
	g := model.Goal{ID: "g-new", UserID: userID, Title: in.Title}
	f.goals = append(f.goals, g)
	return g, nil
}

func (f *fakeService) SetGoalProgress(_ context.Context, id string, pct int) (model.Goal, error) {
	pct = min(max(pct, 0), 100)
	if f.progress == nil {
		f.progress = map[string]int{}
	}
	f.progress[id] = pct
	return model.Goal{ID: id, Title: id, Progress: pct}, nil
}

func (f *fakeService) DeleteGoal(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(svc, "U", keys.DefaultKeyMap(), 100, 30)
	m.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	m, _ = m.Update(m.Init()())
	return m
}

func TestListShowsProgressAndDeadline(t *testing.T) {
	svc := &fakeService{goals: []model.Goal{
		{ID: "g1", Title: "Run a marathon", Priority: model.PriorityHigh, Progress: 40, Deadline: model.Date{Year: 2026, Month: time.March, Day: 20}},
		{ID: "g2", Title: "Read 12 books", Priority: model.PriorityLow, Progress: 100},
	}}
	view := loaded(t, svc).View()

	for _, want := range []string{"Run a marathon", " 40%", "6d left", "Read 12 books", "done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyState(t *testing.T) {
	view := loaded(t, &fakeService{}).View()
	if !strings.Contains(view, "No goals yet") {
		t.Errorf("view = %q", view)
	}
}

func TestProgressKeysStepByTen(t *testing.T) {
	svc := &fakeService{goals: []model.Goal{{ID: "g1", Title: "Learn Go", Progress: 95}}}
	m := loaded(t, svc)

	_, cmd := m.Update(runes("+"))
	if cmd == nil {
		t.Fatal("no command for +")
	}
	m, _ = m.Update(cmd())
	if svc.progress["g1"] != 100 {
		t.Errorf("progress after + = %d, want 100", svc.progress["g1"])
	}
	if !strings.Contains(m.View(), "g1: 100%") {
		t.Error("status not shown")
	}

	_, cmd = m.Update(runes("-"))
	cmd()
	if svc.progress["g1"] != 85 {
		t.Errorf("progress after - = %d, want 85", svc.progress["g1"])
	}
}

func TestEscCloses(t *testing.T) {
	m := loaded(t, &fakeService{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("no command for esc")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Error("esc did not close")
	}
}

func TestNewOpensForm(t *testing.T) {
	m := loaded(t, &fakeService{})
	m, _ = m.Update(runes("n"))
	if m.mode != modeForm || m.form == nil {
		t.Fatalf("mode = %v", m.mode)
	}
	if !strings.Contains(m.View(), "Title") {
		t.Error("form not rendered")
	}
}

func TestSavedMsgReloadsAndSignalsChange(t *testing.T) {
	svc := &fakeService{goals: []model.Goal{{ID: "g1", Title: "Learn Go"}}}
	m := loaded(t, svc)
	m.mode = modeConfirmDelete

	m, cmd := m.Update(savedMsg{status: "Goal deleted"})
	if m.mode != modeList || cmd == nil {
		t.Fatalf("mode = %v, cmd = %v", m.mode, cmd)
	}
	if !strings.Contains(m.View(), "Goal deleted") {
		t.Error("status not shown")
	}
}
