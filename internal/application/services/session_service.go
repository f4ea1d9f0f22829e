package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// SessionService holds the single live session for this process. All core
// operations are scoped through it; the mutex keeps the lifecycle transitions
// consistent even though the caller contract is single-threaded.
type SessionService struct {
	mu      sync.Mutex
	current *entities.Session
}

// NewSessionService creates a session service with no live session.
func NewSessionService() *SessionService {
	return &SessionService{}
}

// Start establishes the session for an authenticated user. Starting while a
// session is live fails; the previous session must be ended explicitly first.
func (s *SessionService) Start(username string, role entities.Role) (entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return entities.Session{}, apperrors.NewSessionAlreadyActiveError(s.current.Username)
	}

	s.current = &entities.Session{
		ID:        uuid.New().String(),
		Username:  username,
		Role:      role,
		StartedAt: time.Now().UTC(),
	}
	return *s.current, nil
}

// Current returns the live session, or a not-authenticated error when there is
// none.
func (s *SessionService) Current() (entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return entities.Session{}, apperrors.NewNotAuthenticatedError()
	}
	return *s.current, nil
}

// End destroys the live session and returns it. Ending with no session is a
// no-op: the bool reports whether a session was actually ended.
func (s *SessionService) End() (entities.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return entities.Session{}, false
	}
	ended := *s.current
	s.current = nil
	return ended, true
}
