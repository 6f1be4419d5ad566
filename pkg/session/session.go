// Package session keeps live layout sessions for the HTTP service.
//
// A [Session] owns one [presenter.Presenter] and therefore one simulation.
// Sessions expire after a period of inactivity; every successful
// [Store.Get] extends the deadline.
//
// # Usage
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	sess, err := store.Open(ctx, p)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err // SESSION_NOT_FOUND or SESSION_EXPIRED
//	}
//	err = sess.Do(func(p *presenter.Presenter) error {
//	    _, err := p.Tick(ctx, 0.016)
//	    return err
//	})
//
// The simulator inside a session is not safe for concurrent use, so all
// access goes through [Session.Do], which serializes callers.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/presenter"
)

// DefaultTTL is the default idle lifetime of a session.
const DefaultTTL = 30 * time.Minute

// Session is one live simulation.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex // guards presenter
	presenter *presenter.Presenter

	expiryMu  sync.Mutex // guards expiresAt
	ttl       time.Duration
	expiresAt time.Time
}

// New creates a session with a random id around p.
func New(p *presenter.Presenter, ttl time.Duration) *Session {
	return newAt(p, ttl, time.Now())
}

func newAt(p *presenter.Presenter, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		presenter: p,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
	}
}

// Do runs fn with exclusive access to the session's presenter.
func (s *Session) Do(fn func(p *presenter.Presenter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.presenter)
}

// ExpiresAt returns the current deadline.
func (s *Session) ExpiresAt() time.Time {
	s.expiryMu.Lock()
	defer s.expiryMu.Unlock()
	return s.expiresAt
}

func (s *Session) expiredAt(now time.Time) bool {
	s.expiryMu.Lock()
	defer s.expiryMu.Unlock()
	return now.After(s.expiresAt)
}

func (s *Session) touch(now time.Time) {
	s.expiryMu.Lock()
	defer s.expiryMu.Unlock()
	s.expiresAt = now.Add(s.ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session and extends its lifetime.
	// Fails with SESSION_NOT_FOUND or SESSION_EXPIRED.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)
}
