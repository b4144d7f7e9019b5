package timerview

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg fires one scheduled timer callback.
type TickMsg struct {
	id uint64
}

// Scheduler implements timer.Scheduler on top of Bubble Tea ticks, so the
// countdown runs on the program's update loop instead of a goroutine.
// After each timer control call, Pending returns the tick command to hand
// back to Bubble Tea.
type Scheduler struct {
	mu        sync.Mutex
	id        uint64
	scheduled uint64
	d         time.Duration
	fn        func()
}

// Every arms fn, replacing any previous callback.
func (s *Scheduler) Every(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id++
	s.d, s.fn = d, fn
	id := s.id
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.id == id {
			s.id++
			s.fn = nil
		}
	}
}

// Pending returns the tick for the armed callback if none is in flight.
func (s *Scheduler) Pending() tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fn == nil || s.scheduled == s.id {
		return nil
	}
	s.scheduled = s.id
	id := s.id
	return tea.Tick(s.d, func(time.Time) tea.Msg { return TickMsg{id: id} })
}

// Handle runs the callback for msg unless it was stopped since, then
// schedules the next tick.
func (s *Scheduler) Handle(msg TickMsg) tea.Cmd {
	s.mu.Lock()
	if msg.id != s.id || s.fn == nil {
		s.mu.Unlock()
		return nil
	}
	s.scheduled = 0
	fn := s.fn
	s.mu.Unlock()

	fn()
	return s.Pending()
}
