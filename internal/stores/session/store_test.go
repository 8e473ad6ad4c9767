package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore() (*InMemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	store := NewInMemoryStore()
	store.now = clock.Now
	return store, clock
}

func TestInMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	sess, err := store.CreateSession(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, 1, sess.Len())

	got, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, store.DeleteSession(ctx, sess.ID))
	assert.Equal(t, 0, store.Count())

	_, err = store.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.DeleteSession(ctx, sess.ID), ErrSessionNotFound)
}

func TestInMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	a, err := store.CreateSession(ctx, nil)
	require.NoError(t, err)
	b, err := store.CreateSession(ctx, nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)

	a.AppendUserTurn("Is the pool available?")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestInMemoryStoreCustomPersona(t *testing.T) {
	persona := conversation.DefaultPersona()
	persona.Greeting = "Hi there"

	sess, err := NewInMemoryStore().CreateSession(context.Background(), persona)
	require.NoError(t, err)

	last, ok := sess.LastTurn()
	require.True(t, ok)
	assert.Equal(t, "Hi there", last.Content)
}

func TestInMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewInMemoryStore().CreateSession(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore()

	stale, err := store.CreateSession(ctx, nil)
	require.NoError(t, err)
	active, err := store.CreateSession(ctx, nil)
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = store.GetSession(ctx, active.ID)
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	removed := store.Sweep(ctx, clock.Now().Add(-30*time.Minute))

	assert.Equal(t, []uuid.UUID{stale.ID}, removed)
	assert.Equal(t, 1, store.Count())

	_, err = store.GetSession(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.GetSession(ctx, active.ID)
	assert.NoError(t, err)
}

func TestSweeper(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore()

	sweeper, err := NewSweeper(store, DefaultSweepSchedule, 10*time.Minute)
	require.NoError(t, err)
	sweeper.now = clock.Now

	_, err = store.CreateSession(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, sweeper.SweepOnce(ctx))

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, sweeper.SweepOnce(ctx))
	assert.Equal(t, 0, store.Count())

	sweeper.Start()
	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	sweeper.Stop(stopCtx)
}

func TestNewSweeperValidation(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		idle     time.Duration
	}{
		{name: "zero idle", schedule: DefaultSweepSchedule, idle: 0},
		{name: "negative idle", schedule: DefaultSweepSchedule, idle: -time.Minute},
		{name: "bad schedule", schedule: "every minute please", idle: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSweeper(NewInMemoryStore(), tt.schedule, tt.idle)
			assert.Error(t, err)
		})
	}
}
