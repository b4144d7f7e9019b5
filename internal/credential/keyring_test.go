package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestRememberRecallForget(t *testing.T) {
	k := New(keyring.NewArrayKeyring(nil))

	if _, err := k.Recall("ada@example.com"); !errors.Is(err, ErrNotRemembered) {
		t.Fatalf("err = %v, want ErrNotRemembered", err)
	}

	if err := k.Remember("Ada@Example.com ", "analytical"); err != nil {
		t.Fatal(err)
	}
	got, err := k.Recall("ada@example.com")
	if err != nil || got != "analytical" {
		t.Fatalf("Recall = %q, %v", got, err)
	}

	if err := k.Forget("ada@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := k.Recall("ada@example.com"); !errors.Is(err, ErrNotRemembered) {
		t.Errorf("password survived Forget: %v", err)
	}
	if err := k.Forget("ada@example.com"); err != nil {
		t.Errorf("second Forget: %v", err)
	}
}
