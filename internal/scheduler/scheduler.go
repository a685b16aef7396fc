package scheduler

import (
	"context"
	"fmt"
	"time"

	"orbit-hr-backend/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper closes every attendance that is still clocked in for today.
type Sweeper interface {
	AutoClockOut(ctx context.Context) (*usecase.SweepResult, error)
}

// AutoClockOut runs the end-of-day sweep on a cron schedule.
type AutoClockOut struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
	timeout time.Duration
	log     zerolog.Logger
	jobID   cron.EntryID
}

// New builds a scheduler. spec uses the six-field format with seconds,
// e.g. "0 0 18 * * 1-5" for 18:00:00 on weekdays, evaluated in loc.
func New(sweeper Sweeper, spec string, loc *time.Location, log zerolog.Logger) *AutoClockOut {
	return &AutoClockOut{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		sweeper: sweeper,
		spec:    spec,
		timeout: 2 * time.Minute,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *AutoClockOut) Start() error {
	var err error
	s.jobID, err = s.cron.AddFunc(s.spec, func() { s.Run(context.Background()) })
	if err != nil {
		return fmt.Errorf("schedule auto clock-out %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Time("next", s.Next()).Msg("auto clock-out scheduled")
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *AutoClockOut) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("auto clock-out still running at shutdown")
	}
}

func (s *AutoClockOut) Next() time.Time {
	return s.cron.Entry(s.jobID).Next
}

// Run performs one sweep. Failures are logged; the next tick retries.
func (s *AutoClockOut) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.sweeper.AutoClockOut(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("auto clock-out failed")
		return
	}
	s.log.Info().Int("updated_count", res.UpdatedCount).Msg(res.Message)
}
