// Package archive records completed exchanges. Records are write-only from the
// concierge's point of view and are never loaded back into a session
package archive

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Exchange is one user action and the turn appended in response
type Exchange struct {
	SessionID uuid.UUID `json:"session_id"`
	Language  string    `json:"language"`
	UserText  string    `json:"user_text"`
	Reply     string    `json:"reply"`
	Failed    bool      `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive stores exchanges
type Archive interface {
	Record(ctx context.Context, exchange *Exchange) error
	Close() error
}

// NopArchive discards everything
type NopArchive struct{}

// Record implements Archive
func (NopArchive) Record(context.Context, *Exchange) error { return nil }

// Close implements Archive
func (NopArchive) Close() error { return nil }

// InMemoryArchive keeps exchanges in a slice
type InMemoryArchive struct {
	exchanges []Exchange
	mu        sync.RWMutex
}

// NewInMemoryArchive creates an empty in-memory archive
func NewInMemoryArchive() *InMemoryArchive {
	return &InMemoryArchive{}
}

// Record implements Archive
func (a *InMemoryArchive) Record(ctx context.Context, exchange *Exchange) error {
	if exchange == nil {
		return errors.New("exchange cannot be nil")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ex := *exchange
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	a.exchanges = append(a.exchanges, ex)

	return nil
}

// Exchanges returns a copy of everything recorded so far
func (a *InMemoryArchive) Exchanges() []Exchange {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return slices.Clone(a.exchanges)
}

// Close implements Archive
func (a *InMemoryArchive) Close() error { return nil }
