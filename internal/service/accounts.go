package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/session"
)

// Domain errors for account flows.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrUserNotFound     = errors.New("user not found")
)

type AccountService struct {
	users    repository.UserDirectory
	activity activityRecorder

	// mu makes check-then-create in Register atomic.
	mu sync.Mutex
}

func NewAccountService(users repository.UserDirectory, rec activityRecorder) *AccountService {
	return &AccountService{users: users, activity: rec}
}

// Register creates a user unless the username is blank or already taken.
// A rejected registration never touches the directory. The username is stored
// exactly as given; only all-blank input is refused.
func (s *AccountService) Register(ctx context.Context, username string) (models.User, error) {
	if strings.TrimSpace(username) == "" {
		return models.User{}, ErrUsernameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrUsernameTaken
	}

	u, err := s.users.Create(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("register %q: %w", username, err)
	}

	s.activity.record(ctx, models.Activity{
		Type:        models.ActivityUserRegistered,
		Username:    u.Username,
		Description: "User registered",
		Metadata:    map[string]any{"user_id": u.ID},
	})
	return u, nil
}

// Authenticate resolves a login attempt by username alone.
func (s *AccountService) Authenticate(ctx context.Context, username string) (models.User, error) {
	if strings.TrimSpace(username) == "" {
		return models.User{}, ErrUsernameRequired
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return *u, nil
}

// CurrentUser returns nil for anonymous sessions and for sessions whose user
// no longer resolves.
func (s *AccountService) CurrentUser(ctx context.Context, sess session.Session) (*models.User, error) {
	id, ok := session.UserID(sess)
	if !ok {
		return nil, nil
	}
	return s.users.FindByID(ctx, id)
}
