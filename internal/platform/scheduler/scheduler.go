// Package scheduler runs the recurring background jobs of the platform on a
// cron cadence. The only job today is the daily follow-up reminder sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper is the batch operation the scheduler drives once per tick.
type Sweeper interface {
	RunReminderSweep(ctx context.Context) (sent, errs, aged int, err error)
}

// Scheduler wraps a cron engine and the jobs registered on it.
type Scheduler struct {
	engine *cron.Cron
	logger zerolog.Logger
}

// New constructs a Scheduler using the server's local time zone.
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		engine: cron.New(cron.WithLocation(time.Local)),
		logger: logger,
	}
}

// AddSweep registers the reminder sweep on the given cron expression
// (standard 5-field format, e.g. "0 8 * * *").
func (s *Scheduler) AddSweep(spec string, sweeper Sweeper) error {
	_, err := s.engine.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		start := time.Now()
		sent, errs, aged, err := sweeper.RunReminderSweep(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("reminder sweep failed")
			return
		}
		s.logger.Info().
			Int("sent", sent).
			Int("errors", errs).
			Int("aged", aged).
			Dur("took", time.Since(start)).
			Msg("reminder sweep completed")
	})
	if err != nil {
		return err
	}
	return nil
}

// Start begins running registered jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.engine.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.engine.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("scheduler stopped")
}
