// Package session holds the identity a long-running client process acts as. Work bound to
// an identity watches Changed and stops when the identity it started with goes away.
package session

import (
	"sync"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
)

// Session is the signed-in identity of a process. The zero value is signed out.
type Session struct {
	mu       sync.RWMutex
	identity *authDomain.Identity
	changed  chan struct{}
}

// New creates a signed-out session.
func New() *Session {
	return &Session{changed: make(chan struct{})}
}

// SignIn replaces the current identity.
func (s *Session) SignIn(identity *authDomain.Identity) {
	s.set(identity)
}

// SignOut clears the current identity.
func (s *Session) SignOut() {
	s.set(nil)
}

// Current returns the signed-in identity, if any.
func (s *Session) Current() (*authDomain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity != nil
}

// Changed returns a channel closed at the next SignIn or SignOut.
func (s *Session) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.changed == nil {
		s.changed = make(chan struct{})
	}
	return s.changed
}

func (s *Session) set(identity *authDomain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = identity
	if s.changed != nil {
		close(s.changed)
	}
	s.changed = make(chan struct{})
}
