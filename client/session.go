package client

import (
	"context"
	"sync"
)

// SessionState tracks the session lifecycle:
// init → hydrated (from cache) → ready (server-verified).
type SessionState int

const (
	StateInit SessionState = iota
	StateHydrated
	StateReady
)

// Session is the single source of truth for the current identity. UI code
// reads it synchronously; Verify refreshes it from the server. Any request
// that comes back 401 tears the session down exactly once, via OnExpired.
// Sessions are safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	store   TokenStore
	creds   Credentials
	state   SessionState
	hasUser bool

	// OnExpired is invoked once when the server rejects the session's token.
	// Typical use: prompt for re-login. Set before the first request.
	OnExpired func()

	expireOnce *sync.Once
}

// NewSession creates an unauthenticated session backed by store.
func NewSession(store TokenStore) *Session {
	return &Session{store: store, expireOnce: &sync.Once{}}
}

// Hydrate loads cached credentials synchronously, before any network round
// trip. Returns true when a cached identity was found.
func (s *Session) Hydrate() bool {
	creds, err := s.store.Load()
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.hasUser = true
	s.state = StateHydrated
	return true
}

// Token returns the bearer token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

// Current returns the cached user projection and whether one is present.
func (s *Session) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.User, s.hasUser
}

// State reports the lifecycle stage.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Allowed reports whether the cached role is in the allow-list. It reads
// only local state, so route guards can gate rendering before any network
// round-trip. An empty allow-list admits any authenticated user.
func (s *Session) Allowed(roles ...string) bool {
	user, ok := s.Current()
	if !ok || !user.Active {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// establish replaces the session identity after a successful login or
// verification and persists it to the store.
func (s *Session) establish(creds Credentials) {
	s.mu.Lock()
	s.creds = creds
	s.hasUser = true
	s.state = StateReady
	s.expireOnce = &sync.Once{}
	s.mu.Unlock()

	_ = s.store.Save(creds)
}

// teardown clears all session state and the persisted cache. It is the one
// central place that handles credential expiry, regardless of which call
// observed the 401.
func (s *Session) teardown() {
	s.mu.Lock()
	once := s.expireOnce
	s.creds = Credentials{}
	s.hasUser = false
	s.state = StateInit
	s.mu.Unlock()

	_ = s.store.Clear()

	once.Do(func() {
		if s.OnExpired != nil {
			s.OnExpired()
		}
	})
}

// Logout discards the session without invoking OnExpired.
func (s *Session) Logout(_ context.Context) {
	s.mu.Lock()
	s.creds = Credentials{}
	s.hasUser = false
	s.state = StateInit
	s.expireOnce = &sync.Once{}
	s.mu.Unlock()

	_ = s.store.Clear()
}
