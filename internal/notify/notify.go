// Package notify delivers desktop notifications through the terminal.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
)

// Permission mirrors the three-state notification permission model.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ErrPermissionDenied is returned by Notify when permission is not granted.
var ErrPermissionDenied = errors.New("notification permission not granted")

// ParsePermission validates a configured permission; empty means default.
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PermissionDefault, nil
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	default:
		return "", fmt.Errorf("unknown notification permission %q", s)
	}
}

// Terminal emits OSC 777 notifications, which most modern terminal
// emulators forward to the desktop.
type Terminal struct {
	mu     sync.Mutex
	out    *termenv.Output
	perm   Permission
	isTTY  func() bool
	logger *zap.Logger
}

// NewTerminal creates a notifier writing escape sequences to w.
func NewTerminal(w io.Writer, perm Permission, logger *zap.Logger) *Terminal {
	if logger == nil {
		logger = zap.NewNop()
	}
	if perm == "" {
		perm = PermissionDefault
	}
	return &Terminal{
		out:    termenv.NewOutput(w),
		perm:   perm,
		isTTY:  func() bool { return isTerminal(w) },
		logger: logger.Named("notify"),
	}
}

// Permission reports the current permission.
func (t *Terminal) Permission() Permission {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.perm
}

// RequestPermission resolves an undecided permission: granted when the
// output is an interactive terminal, denied otherwise. A decided
// permission is returned unchanged.
func (t *Terminal) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDefault, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.perm != PermissionDefault {
		return t.perm, nil
	}
	if t.isTTY() {
		t.perm = PermissionGranted
	} else {
		t.perm = PermissionDenied
	}
	t.logger.Info("notification permission resolved", zap.String("permission", string(t.perm)))
	return t.perm, nil
}

// Notify shows title and body. It fails unless permission was granted.
func (t *Terminal) Notify(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.perm != PermissionGranted {
		return ErrPermissionDenied
	}
	t.out.Notify(sanitize(title), sanitize(body))
	t.logger.Debug("notification sent", zap.String("title", title))
	return nil
}

// sanitize drops control characters and the OSC field separator.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ';':
			return ','
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
