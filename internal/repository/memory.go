package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"microblog/internal/models"
)

// UserMemory is an in-process UserDirectory. All methods are safe for concurrent use.
type UserMemory struct {
	mu    sync.RWMutex
	users []models.User
}

func NewUserMemory() *UserMemory {
	return &UserMemory{}
}

var _ UserDirectory = (*UserMemory)(nil)

// Create appends a user with id = len + 1. Users are never removed, so ids are never reused.
func (m *UserMemory) Create(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := models.User{
		ID:          len(m.users) + 1,
		Username:    username,
		MemberSince: time.Now().UTC(),
	}
	m.users = append(m.users, u)
	return u, nil
}

func (m *UserMemory) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *UserMemory) FindByID(_ context.Context, id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *UserMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// PostMemory is an in-process PostStore. All methods are safe for concurrent use.
type PostMemory struct {
	mu     sync.RWMutex
	posts  []models.Post
	nextID int
}

func NewPostMemory() *PostMemory {
	return &PostMemory{nextID: 1}
}

var _ PostStore = (*PostMemory)(nil)

// Create appends a post. nextID equals len + 1 until the first delete and is never rewound.
func (m *PostMemory) Create(_ context.Context, title, content, username string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := models.Post{
		ID:        m.nextID,
		Title:     title,
		Content:   content,
		Username:  username,
		Timestamp: time.Now().UTC(),
	}
	m.nextID++
	m.posts = append(m.posts, p)
	return p, nil
}

func (m *PostMemory) FindByID(_ context.Context, id int) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		p := m.posts[i]
		return &p, nil
	}
	return nil, nil
}

func (m *PostMemory) List(_ context.Context) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Post, len(m.posts))
	copy(out, m.posts)
	return out, nil
}

func (m *PostMemory) ListByUsername(_ context.Context, username string) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Post, 0)
	for _, p := range m.posts {
		if p.Username == username {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *PostMemory) Like(_ context.Context, id int, requester string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return 0, ErrPostNotFound
	}
	if m.posts[i].Username == requester {
		return 0, ErrSelfLike
	}
	m.posts[i].Likes++
	return m.posts[i].Likes, nil
}

func (m *PostMemory) Delete(_ context.Context, id int, requester string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrPostNotFound
	}
	if m.posts[i].Username != requester {
		return ErrNotOwner
	}
	m.posts = append(m.posts[:i], m.posts[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (m *PostMemory) indexOf(id int) int {
	for i := range m.posts {
		if m.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// ActivityMemory is an in-process ActivityRepo.
type ActivityMemory struct {
	mu     sync.RWMutex
	events []models.Activity
}

func NewActivityMemory() *ActivityMemory {
	return &ActivityMemory{}
}

var _ ActivityRepo = (*ActivityMemory)(nil)

func (m *ActivityMemory) Append(_ context.Context, a models.Activity) error {
	a = normalizeActivity(a)

	m.mu.Lock()
	defer m.mu.Unlock()

	// keep ascending order by OccurredAt; appends are almost always at the tail
	i := len(m.events)
	for i > 0 && m.events[i-1].OccurredAt.After(a.OccurredAt) {
		i--
	}
	m.events = append(m.events, models.Activity{})
	copy(m.events[i+1:], m.events[i:])
	m.events[i] = a
	return nil
}

func (m *ActivityMemory) List(_ context.Context, from, to time.Time, typ string) ([]models.Activity, error) {
	typ = strings.ToUpper(strings.TrimSpace(typ))

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Activity, 0, len(m.events))
	for _, a := range m.events {
		if !from.IsZero() && a.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && a.OccurredAt.After(to) {
			continue
		}
		if typ != "" && a.Type != typ {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
