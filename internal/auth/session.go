// Package auth owns the signed-in user and the login and registration
// flows.
package auth

import (
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

// Session holds the current user for the whole process.
type Session struct {
	mu   sync.RWMutex
	user *clients.User
}

func NewSession() *Session { return &Session{} }

func (s *Session) Set(u clients.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *clients.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}
