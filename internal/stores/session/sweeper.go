package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultSweepSchedule = "@every 1m"
)

// Sweeper periodically tears down sessions that have been idle too long
type Sweeper struct {
	store Store
	idle  time.Duration
	cron  *cron.Cron
	now   func() time.Time
}

// NewSweeper schedules idle sweeps of store. The schedule accepts standard cron
// expressions and descriptors such as "@every 1m"
func NewSweeper(store Store, schedule string, idle time.Duration) (*Sweeper, error) {
	if idle <= 0 {
		return nil, errors.Errorf("idle timeout must be positive, got %s", idle)
	}

	s := &Sweeper{
		store: store,
		idle:  idle,
		cron:  cron.New(),
		now:   func() time.Time { return time.Now().UTC() },
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.SweepOnce(context.Background()) }); err != nil {
		return nil, errors.Wrapf(err, "invalid sweep schedule %q", schedule)
	}

	return s, nil
}

// Start runs the schedule in the background
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to expire
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()

	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// SweepOnce removes idle sessions immediately and returns how many were removed
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	removed := s.store.Sweep(ctx, s.now().Add(-s.idle))

	if len(removed) > 0 {
		log.Info().
			Str("component", "sessions").
			Int("removed", len(removed)).
			Int("remaining", s.store.Count()).
			Msg("swept idle sessions")
	}

	return len(removed)
}
