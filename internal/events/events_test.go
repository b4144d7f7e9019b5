package events

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/focusboard/internal/timer"
)

func TestSessionDoneIsDelivered(t *testing.T) {
	b := New()
	s := timer.Session{ID: "s1", Kind: timer.KindFocus, Total: 25 * time.Minute}
	b.SessionDone(s)

	msg, ok := b.Wait()().(SessionDoneMsg)
	if !ok {
		t.Fatalf("got %T, want SessionDoneMsg", msg)
	}
	if msg.Session.ID != "s1" {
		t.Errorf("session = %+v", msg.Session)
	}
}

func TestPromptBreakForwardsAccept(t *testing.T) {
	b := New()
	called := 0
	b.PromptBreak(context.Background(), func() { called++ })

	msg, ok := b.Wait()().(BreakOfferMsg)
	if !ok {
		t.Fatal("expected BreakOfferMsg")
	}
	msg.Accept()
	if called != 1 {
		t.Errorf("accept called %d times", called)
	}
}

func TestSendDoesNotBlockWhenFull(t *testing.T) {
	b := New()
	done := make(chan struct{})
	go func() {
		for range bufferSize + 5 {
			b.SessionDone(timer.Session{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked on a full queue")
	}
}

func TestCloseEndsWait(t *testing.T) {
	b := New()
	b.Close()
	b.Close()
	b.SessionDone(timer.Session{})

	if msg := b.Wait()(); msg != nil {
		t.Errorf("Wait after Close = %v, want nil", msg)
	}
}
