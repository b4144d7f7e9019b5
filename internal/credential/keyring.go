// Package credential remembers login passwords in the OS keyring so the
// CLI can log back in without prompting.
package credential

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "focusboard"

// ErrNotRemembered is returned when no password is stored for an email.
var ErrNotRemembered = errors.New("no remembered password")

// Keyring stores remembered passwords keyed by email.
type Keyring struct {
	ring keyring.Keyring
}

// Open returns a Keyring on the first usable system backend. The file
// backend, used when nothing else is available, lives under dir.
func Open(dir string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(dir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("focusboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return New(ring), nil
}

// New wraps an existing keyring.
func New(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

func itemKey(email string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(email))
}

// Remember stores password for email.
func (k *Keyring) Remember(email, password string) error {
	err := k.ring.Set(keyring.Item{
		Key:         itemKey(email),
		Data:        []byte(password),
		Label:       "focusboard login",
		Description: email,
	})
	if err != nil {
		return fmt.Errorf("remembering password for %s: %w", email, err)
	}
	return nil
}

// Recall returns the stored password for email.
func (k *Keyring) Recall(email string) (string, error) {
	item, err := k.ring.Get(itemKey(email))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%s: %w", email, ErrNotRemembered)
	}
	if err != nil {
		return "", fmt.Errorf("getting password for %s: %w", email, err)
	}
	return string(item.Data), nil
}

// Forget removes the stored password for email. Forgetting an unknown
// email is not an error.
func (k *Keyring) Forget(email string) error {
	err := k.ring.Remove(itemKey(email))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("forgetting password for %s: %w", email, err)
	}
	return nil
}
