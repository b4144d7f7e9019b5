package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParsePermission(t *testing.T) {
	tests := []struct {
		in      string
		want    Permission
		wantErr bool
	}{
		{"", PermissionDefault, false},
		{"granted", PermissionGranted, false},
		{" Denied ", PermissionDenied, false},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePermission(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePermission(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRequestPermission(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		start Permission
		tty   bool
		want  Permission
	}{
		{"undecided on a terminal", PermissionDefault, true, PermissionGranted},
		{"undecided when piped", PermissionDefault, false, PermissionDenied},
		{"denied stays denied", PermissionDenied, true, PermissionDenied},
		{"granted stays granted", PermissionGranted, false, PermissionGranted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewTerminal(&bytes.Buffer{}, tt.start, nil)
			n.isTTY = func() bool { return tt.tty }

			got, err := n.RequestPermission(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || n.Permission() != tt.want {
				t.Errorf("permission = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotifyRequiresGrant(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, PermissionDefault, nil)

	if err := n.Notify(context.Background(), "Timer Complete!", "done"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q without permission", buf.String())
	}
}

func TestNotifyWritesOSC777(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, PermissionGranted, nil)

	if err := n.Notify(context.Background(), "Timer Complete!", "Your focus session has ended.\x07;"); err != nil {
		t.Fatal(err)
	}
	want := "777;notify;Timer Complete!;Your focus session has ended.,"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("output = %q, want it to contain %q", buf.String(), want)
	}
}
