package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/focusboard/internal/model"
)

// SaveUser makes user the current (logged-in) user. The password is never
// written to the current-user slot.
func (s *Store) SaveUser(ctx context.Context, user model.User) error {
	if err := saveObject(ctx, s, KeyUser, user.WithoutPassword()); err != nil {
		return fmt.Errorf("saving current user: %w", err)
	}
	return nil
}

// GetUser returns the current user, or nil when nobody is logged in.
func (s *Store) GetUser(ctx context.Context) (*model.User, error) {
	var u model.User
	ok, err := loadObject(ctx, s, KeyUser, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// ClearUser logs the current user out. The account stays in the users
// collection.
func (s *Store) ClearUser(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyUser)
}

// AddUser appends an account to the users collection.
func (s *Store) AddUser(ctx context.Context, user model.User) (model.User, error) {
	return appendRecord(ctx, s, KeyUsers, user, validateUser)
}

// GetUsers returns every registered account.
func (s *Store) GetUsers(ctx context.Context) ([]model.User, error) {
	return loadList[model.User](ctx, s, KeyUsers)
}

// FindUserByEmail returns the account registered under email
// (case-insensitive) or ErrNotFound.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, notFound(KeyUsers, email)
}

func validateUser(u model.User) error {
	if u.ID == "" {
		return errEmptyID("user")
	}
	if u.Email == "" {
		return fmt.Errorf("user %s: email must not be empty", u.ID)
	}
	return nil
}
