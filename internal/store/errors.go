package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by updates that target a missing id.
	ErrNotFound = errors.New("record not found")

	// ErrCorruptStoreData marks persisted content that cannot be decoded.
	ErrCorruptStoreData = errors.New("corrupt store data")

	// ErrMalformedBackup is returned when an import document is unusable.
	ErrMalformedBackup = errors.New("malformed backup")

	// ErrInvalidRecord is returned when a record breaks a model invariant.
	ErrInvalidRecord = errors.New("invalid record")
)

// CorruptDataError reports which key held undecodable content.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data under %q: %v", e.Key, e.Err)
}

// Is makes errors.Is(err, ErrCorruptStoreData) match.
func (e *CorruptDataError) Is(target error) bool {
	return target == ErrCorruptStoreData
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

func notFound(collection, id string) error {
	return fmt.Errorf("%s %s: %w", collection, id, ErrNotFound)
}

func errEmptyID(entity string) error {
	return fmt.Errorf("%s id must not be empty", entity)
}
