package session

import (
	"sync"

	"github.com/google/uuid"

	"mobox/internal/models"
)

// Session is the single process-wide slot for the authenticated user.
// Created empty by the composition root and injected into every controller
// that scopes queries per user; never persisted.
type Session struct {
	mu   sync.RWMutex
	user *models.User
	id   string
}

func New() *Session {
	return &Session{}
}

// Set stores the logged-in user and mints a fresh session id.
func (s *Session) Set(user *models.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.id = uuid.New().String()
	return s.id
}

// User returns the current user, or nil when nobody is logged in.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ID returns the current session id, empty when logged out.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Clear logs the user out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.id = ""
}
