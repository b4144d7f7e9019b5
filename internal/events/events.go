// Package events carries timer completions and break offers from the
// timer's goroutine into the Bubble Tea runtime.
package events

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusboard/internal/timer"
)

// SessionDoneMsg is sent when a focus session or break finishes.
type SessionDoneMsg struct {
	Session timer.Session
}

// BreakOfferMsg is sent when the timer offers a break. Accept starts the
// break; it is safe to call more than once.
type BreakOfferMsg struct {
	Accept func()
}

// bufferSize bounds the queue between the timer and the UI.
const bufferSize = 16

// Bridge queues timer events for the UI. The zero value is not usable;
// create one with New.
type Bridge struct {
	ch     chan tea.Msg
	mu     sync.Mutex
	closed bool
}

// New creates a Bridge.
func New() *Bridge {
	return &Bridge{ch: make(chan tea.Msg, bufferSize)}
}

// SessionDone is a timer completion hook.
func (b *Bridge) SessionDone(s timer.Session) {
	b.send(SessionDoneMsg{Session: s})
}

// PromptBreak implements timer.BreakPrompter by forwarding the offer to
// the UI, which calls accept when the user takes the break.
func (b *Bridge) PromptBreak(_ context.Context, accept func()) {
	b.send(BreakOfferMsg{Accept: accept})
}

// Wait returns a tea.Cmd that blocks until the next event. Call it again
// after handling each event to keep listening.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Close stops delivery. Pending Wait commands return nil.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}

// send enqueues msg without blocking the timer.
func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	select {
	case b.ch <- msg:
	default:
		// Queue full; the UI is not draining.
	}
}
