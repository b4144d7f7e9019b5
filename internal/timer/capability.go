package timer

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/focusboard/internal/notify"
)

// ErrCapabilityUnavailable is reported when an optional host capability
// (sound, notifications) is missing. The countdown never depends on it.
var ErrCapabilityUnavailable = errors.New("capability unavailable")

// TonePlayer plays a named alarm tone.
type TonePlayer interface {
	Play(ctx context.Context, tone string) error
}

// Notifier shows desktop notifications under a permission model.
type Notifier interface {
	Permission() notify.Permission
	RequestPermission(ctx context.Context) (notify.Permission, error)
	Notify(ctx context.Context, title, body string) error
}

// FocusRecorder credits completed session time to a calendar day.
type FocusRecorder interface {
	RecordFocusTime(ctx context.Context, at time.Time, hours float64) error
}

// BreakPrompter offers a break after a long session. Implementations call
// accept, at most once, if the user takes the break. They may call it
// before returning or later from another goroutine.
type BreakPrompter interface {
	PromptBreak(ctx context.Context, accept func())
}

// BreakPrompterFunc adapts a function to BreakPrompter.
type BreakPrompterFunc func(ctx context.Context, accept func())

func (f BreakPrompterFunc) PromptBreak(ctx context.Context, accept func()) { f(ctx, accept) }

// AutoBreak accepts every break offer.
var AutoBreak = BreakPrompterFunc(func(_ context.Context, accept func()) { accept() })

type noPlayer struct{}

func (noPlayer) Play(context.Context, string) error { return ErrCapabilityUnavailable }

type noNotifier struct{}

func (noNotifier) Permission() notify.Permission { return notify.PermissionDenied }

func (noNotifier) RequestPermission(context.Context) (notify.Permission, error) {
	return notify.PermissionDenied, ErrCapabilityUnavailable
}

func (noNotifier) Notify(context.Context, string, string) error { return ErrCapabilityUnavailable }

type noRecorder struct{}

func (noRecorder) RecordFocusTime(context.Context, time.Time, float64) error { return nil }
