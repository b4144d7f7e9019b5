// Package auth implements the local account model: a built-in demo
// account plus accounts registered on this machine. There is no server
// and passwords are stored as entered.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/model"
	"github.com/nhle/focusboard/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordRequired   = errors.New("password is required")
	ErrNameRequired       = errors.New("first and last name are required")
)

// Demo account credentials.
const (
	DemoEmail    = "demo@azukadashboard.com"
	DemoPassword = "demo123"
	DemoUserID   = "demo-user"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// UserStore is the persistence auth needs.
type UserStore interface {
	AddUser(ctx context.Context, user model.User) (model.User, error)
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
	SaveUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context) (*model.User, error)
	ClearUser(ctx context.Context) error
}

// SignupInput carries the signup form fields.
type SignupInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Confirm    string
	Newsletter bool
}

// Service logs users in and out.
type Service struct {
	users  UserStore
	ids    *model.IDSource
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a Service. A nil clock means time.Now.
func NewService(users UserStore, now func() time.Time, logger *zap.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:  users,
		ids:    model.NewIDSource(now),
		now:    now,
		logger: logger.Named("auth"),
	}
}

// Signup registers a new account and logs it in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (model.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.FirstName == "" || in.LastName == "":
		return model.User{}, ErrNameRequired
	case !ValidEmail(in.Email):
		return model.User{}, ErrInvalidEmail
	case len(in.Password) < MinPasswordLength:
		return model.User{}, ErrWeakPassword
	case in.Password != in.Confirm:
		return model.User{}, ErrPasswordMismatch
	}

	if strings.EqualFold(in.Email, DemoEmail) {
		return model.User{}, ErrEmailTaken
	}
	_, err := s.users.FindUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return model.User{}, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return model.User{}, fmt.Errorf("checking existing accounts: %w", err)
	}

	prefs := model.DefaultPreferences()
	user := model.User{
		ID:          s.ids.Next("user"),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Password:    in.Password,
		Newsletter:  in.Newsletter,
		Joined:      s.now().UTC(),
		Preferences: &prefs,
	}
	if _, err := s.users.AddUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("registering account: %w", err)
	}
	s.logger.Info("account created", zap.String("user", user.ID))

	return s.login(ctx, user)
}

// Login checks credentials against the demo account and the registered
// accounts and makes the match the current user.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return model.User{}, ErrInvalidEmail
	}
	if password == "" {
		return model.User{}, ErrPasswordRequired
	}

	if email == DemoEmail && password == DemoPassword {
		return s.login(ctx, s.demoUser())
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && user.Password != password) {
		s.logger.Info("login rejected", zap.String("email", email))
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("looking up account: %w", err)
	}
	return s.login(ctx, user)
}

// Logout forgets the current user. Registered accounts are kept.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.users.ClearUser(ctx); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Current returns the logged-in user, or nil.
func (s *Service) Current(ctx context.Context) (*model.User, error) {
	return s.users.GetUser(ctx)
}

func (s *Service) login(ctx context.Context, user model.User) (model.User, error) {
	user = user.WithoutPassword()
	if err := s.users.SaveUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("saving session: %w", err)
	}
	s.logger.Info("logged in", zap.String("user", user.ID))
	return user, nil
}

func (s *Service) demoUser() model.User {
	return model.User{
		ID:        DemoUserID,
		FirstName: "Demo",
		LastName:  "User",
		Email:     DemoEmail,
		Joined:    s.now().UTC(),
		Stats:     model.UserStatsCache{Goals: 3, Tasks: 8, Streak: 7},
	}
}
