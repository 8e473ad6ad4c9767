// Package session maps browser session handles to conversations
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when a handle does not map to a live session
var ErrSessionNotFound = errors.New("session not found")

// Store interface defines methods for session registries
type Store interface {
	CreateSession(ctx context.Context, persona *conversation.Persona) (*conversation.Session, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*conversation.Session, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	Sweep(ctx context.Context, cutoff time.Time) []uuid.UUID
	Count() int
}

type entry struct {
	session  *conversation.Session
	lastSeen time.Time
}

// InMemoryStore keeps sessions for the lifetime of the process
type InMemoryStore struct {
	sessions map[uuid.UUID]*entry
	mu       sync.RWMutex

	now func() time.Time
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[uuid.UUID]*entry),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession creates a new seeded session
func (s *InMemoryStore) CreateSession(ctx context.Context, persona *conversation.Persona) (*conversation.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := conversation.NewSession(persona)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &entry{session: session, lastSeen: s.now()}
	return session, nil
}

// GetSession retrieves a session by ID and marks it as recently used
func (s *InMemoryStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*conversation.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	e.lastSeen = s.now()
	return e.session, nil
}

// DeleteSession deletes a session from memory
func (s *InMemoryStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(s.sessions, sessionID)
	return nil
}

// Sweep removes every session not used since cutoff and returns their IDs
func (s *InMemoryStore) Sweep(ctx context.Context, cutoff time.Time) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []uuid.UUID
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}

	return removed
}

// Count returns the number of live sessions
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
