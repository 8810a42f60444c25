package service

import (
	"context"
	"time"

	"microblog/internal/logger"
	"microblog/internal/session"
)

// Sweeper drops entries that expired or went idle before now.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SessionJanitor periodically drops expired sessions from the store, along with
// idle entries of any extra sweepers such as the auth rate limiter.
type SessionJanitor struct {
	store session.Store
	extra map[string]Sweeper
	log   *logger.Logger
}

func NewSessionJanitor(store session.Store, extra map[string]Sweeper, log *logger.Logger) *SessionJanitor {
	return &SessionJanitor{store: store, extra: extra, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (j *SessionJanitor) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			j.sweep(now)
		}
	}
}

func (j *SessionJanitor) sweep(now time.Time) {
	if n := j.store.Sweep(now); n > 0 && j.log != nil {
		j.log.Debugw("sessions_swept", "removed", n)
	}
	for name, s := range j.extra {
		if n := s.Sweep(now); n > 0 && j.log != nil {
			j.log.Debugw("idle_entries_swept", "sweeper", name, "removed", n)
		}
	}
}
