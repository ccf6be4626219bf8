package rest

import (
	"sync"

	"github.com/pitrade/tradesync/pkg/logger"
)

// TokenStore persists the bearer token across process restarts.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
}

// Session holds the bearer token for one client. It is an explicit
// object handed to NewClient rather than process-global state, so two
// clients can authenticate as different principals.
type Session struct {
	mu    sync.RWMutex
	token string
	store TokenStore
}

// NewSession creates a session backed by store. A previously persisted
// token is loaded eagerly; store may be nil for a memory-only session.
func NewSession(store TokenStore) *Session {
	s := &Session{store: store}
	if store != nil {
		tok, err := store.Load()
		if err != nil {
			logger.Warnf("session: load persisted token: %v", err)
		} else {
			s.token = tok
		}
	}
	return s
}

// SetToken updates the in-memory token and writes it through to the
// backing store.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(token); err != nil {
			logger.Warnf("session: persist token: %v", err)
			return err
		}
	}
	return nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
