package service

import (
	"context"
	"fmt"
	"time"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/session"
)

type SessionService struct {
	store    session.Store
	codec    *session.Codec
	users    repository.UserDirectory
	activity activityRecorder
	now      func() time.Time
}

func NewSessionService(store session.Store, codec *session.Codec, users repository.UserDirectory, rec activityRecorder) *SessionService {
	return &SessionService{store: store, codec: codec, users: users, activity: rec, now: time.Now}
}

// Start opens a session for user and returns the signed cookie token.
func (s *SessionService) Start(ctx context.Context, user models.User) (string, error) {
	sid, err := s.store.Create(user.ID, s.now().Add(s.codec.TTL()))
	if err != nil {
		return "", fmt.Errorf("create session for %q: %w", user.Username, err)
	}
	token, err := s.codec.Issue(sid)
	if err != nil {
		_ = s.store.Destroy(sid)
		return "", err
	}

	s.activity.record(ctx, models.Activity{
		Type:        models.ActivityLogin,
		Username:    user.Username,
		Description: "User logged in",
		Metadata:    map[string]any{"user_id": user.ID},
	})
	return token, nil
}

// Resolve maps a cookie token to a session. Anything unverifiable is Anonymous.
func (s *SessionService) Resolve(_ context.Context, token string) session.Session {
	if token == "" {
		return session.Anonymous{}
	}
	sid, err := s.codec.Parse(token)
	if err != nil {
		return session.Anonymous{}
	}
	return s.store.Lookup(sid, s.now())
}

// End destroys the session behind token. Unknown or invalid tokens are a no-op.
func (s *SessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sid, err := s.codec.Parse(token)
	if err != nil {
		return nil
	}
	sess := s.store.Lookup(sid, s.now())
	if err := s.store.Destroy(sid); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	if uid, ok := session.UserID(sess); ok {
		username := ""
		if u, err := s.users.FindByID(ctx, uid); err == nil && u != nil {
			username = u.Username
		}
		s.activity.record(ctx, models.Activity{
			Type:        models.ActivityLogout,
			Username:    username,
			Description: "User logged out",
			Metadata:    map[string]any{"user_id": uid},
		})
	}
	return nil
}
