package timerview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusboard/internal/events"
	"github.com/nhle/focusboard/internal/keys"
	"github.com/nhle/focusboard/internal/timer"
)

func newPanel(seconds int) (Model, *Scheduler, *timer.Timer) {
	sched := &Scheduler{}
	t := timer.New(timer.WithScheduler(sched), timer.WithDuration(seconds))
	return New(t, sched, keys.DefaultKeyMap(), 5), sched, t
}

func space() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}} }

func TestSchedulerPendingOncePerArm(t *testing.T) {
	s := &Scheduler{}
	if s.Pending() != nil {
		t.Fatal("Pending with nothing armed")
	}

	calls := 0
	stop := s.Every(0, func() { calls++ })
	if s.Pending() == nil {
		t.Fatal("no tick for armed callback")
	}
	if s.Pending() != nil {
		t.Fatal("second tick scheduled while one is in flight")
	}

	if cmd := s.Handle(TickMsg{id: s.id}); cmd == nil {
		t.Error("armed callback not rescheduled")
	}
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}

	old := s.id
	stop()
	stop()
	if cmd := s.Handle(TickMsg{id: old}); cmd != nil || calls != 1 {
		t.Errorf("stopped callback ran: calls=%d cmd=%v", calls, cmd != nil)
	}
}

func TestSpaceStartsAndPauses(t *testing.T) {
	m, sched, tm := newPanel(3)

	m, cmd := m.Update(space())
	if cmd == nil || tm.Status().State != timer.Running {
		t.Fatalf("start: state %v, cmd %v", tm.Status().State, cmd != nil)
	}

	m, _ = m.Update(TickMsg{id: sched.id})
	if got := tm.Status().Remaining; got != 2 {
		t.Fatalf("remaining = %d, want 2", got)
	}

	stale := TickMsg{id: sched.id}
	m, _ = m.Update(space())
	if tm.Status().State != timer.Paused {
		t.Fatalf("state = %v, want paused", tm.Status().State)
	}
	m, _ = m.Update(stale)
	if got := tm.Status().Remaining; got != 2 {
		t.Errorf("stale tick moved the clock: %d", got)
	}
	_ = m
}

func TestTicksCompleteTheSession(t *testing.T) {
	m, sched, tm := newPanel(2)
	m, _ = m.Update(space())

	m, _ = m.Update(TickMsg{id: sched.id})
	m, cmd := m.Update(TickMsg{id: sched.id})
	if tm.Status().State != timer.Completed {
		t.Fatalf("state = %v", tm.Status().State)
	}
	if cmd != nil {
		t.Error("completed timer still ticking")
	}
	if !strings.Contains(m.View(), "COMPLETED") {
		t.Error("view does not show completion")
	}
}

func TestPresetKeysSetDuration(t *testing.T) {
	m, _, tm := newPanel(60)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if st := tm.Status(); st.Total != 900 || st.State != timer.Idle {
		t.Errorf("after preset: %+v", st)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if st := tm.Status(); st.Remaining != 900 {
		t.Errorf("after reset: %+v", st)
	}
}

func TestSetDurationRejectsNegative(t *testing.T) {
	m, _, _ := newPanel(60)
	if _, _, err := m.SetDuration(-1); err == nil {
		t.Error("negative duration accepted")
	}
	if _, _, err := m.SetDuration(330); err != nil {
		t.Error(err)
	}
}

func TestBreakOfferOpensConfirm(t *testing.T) {
	m, _, _ := newPanel(60)
	m.SetSize(60, 20)

	m, _ = m.Update(events.BreakOfferMsg{Accept: func() {}})
	if !m.Offering() {
		t.Fatal("offer not shown")
	}
	if !strings.Contains(m.View(), "Take a 5-minute break?") {
		t.Error("confirm title missing from view")
	}
}
