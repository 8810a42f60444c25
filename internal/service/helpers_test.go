package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/session"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

// failingActivity rejects every append.
type failingActivity struct{ calls int }

func (f *failingActivity) Append(ctx context.Context, a models.Activity) error {
	f.calls++
	return errors.New("activity store down")
}

func (f *failingActivity) List(ctx context.Context, from, to time.Time, typ string) ([]models.Activity, error) {
	return nil, errors.New("activity store down")
}

// mockUsers is a UserDirectory with injectable failures.
type mockUsers struct {
	FindByUsernameFn func(username string) (*models.User, error)
	CreateFn         func(username string) (models.User, error)

	createCalls []string
}

func (m *mockUsers) Create(ctx context.Context, username string) (models.User, error) {
	m.createCalls = append(m.createCalls, username)
	return m.CreateFn(username)
}

func (m *mockUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.FindByUsernameFn(username)
}

func (m *mockUsers) FindByID(ctx context.Context, id int) (*models.User, error) {
	return nil, nil
}

func (m *mockUsers) Count(ctx context.Context) (int, error) {
	return len(m.createCalls), nil
}

func newTestService(t *testing.T) (*Service, *repository.Repository, *session.MemoryStore) {
	t.Helper()
	repos := repository.NewMemoryRepository()
	store := session.NewMemoryStore()
	codec, err := session.NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	svc := NewService(repos, Deps{SessionStore: store, Codec: codec})
	return svc, repos, store
}

func activityTypes(t *testing.T, repos *repository.Repository) []string {
	t.Helper()
	events, err := repos.Activity.List(context.Background(), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}
