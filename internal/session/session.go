// Package session holds per-client login state. A Session is either Anonymous
// or Authenticated; there is no representation for "logged in without a user".
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is implemented by Anonymous and Authenticated only.
type Session interface {
	isSession()
}

// Anonymous is the state of a client without a live session.
type Anonymous struct{}

// Authenticated is a live session bound to a user id.
type Authenticated struct {
	ID     string
	UserID int
}

func (Anonymous) isSession()     {}
func (Authenticated) isSession() {}

// UserID returns the bound user id, if any.
func UserID(s Session) (int, bool) {
	if a, ok := s.(Authenticated); ok {
		return a.UserID, true
	}
	return 0, false
}

var ErrInvalidUser = errors.New("session: user id must be positive")

// Store keeps live sessions keyed by an opaque id.
type Store interface {
	Create(userID int, expiresAt time.Time) (string, error)
	Lookup(id string, now time.Time) Session
	Destroy(id string) error
	Sweep(now time.Time) int
}

type entry struct {
	userID    int
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded Store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]entry)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(userID int, expiresAt time.Time) (string, error) {
	if userID <= 0 {
		return "", ErrInvalidUser
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{userID: userID, expiresAt: expiresAt}
	return id, nil
}

// Lookup returns Anonymous for unknown or expired ids. Expired entries are dropped.
func (s *MemoryStore) Lookup(id string, now time.Time) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Anonymous{}
	}
	if !now.Before(e.expiresAt) {
		delete(s.sessions, id)
		return Anonymous{}
	}
	return Authenticated{ID: id, UserID: e.userID}
}

// Destroy is a no-op for unknown ids.
func (s *MemoryStore) Destroy(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep removes expired sessions and reports how many were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
