package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"skirent-backend/internal/jobs"
	"skirent-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler in the reservation time zone with seconds precision.
// It fails if a configured schedule cannot be parsed.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(jobRunner.Config().Location()),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// Daily jobs
	// Close reservations whose end date has passed
	if _, err := s.cron.AddFunc(cfg.FinishExpiredReservations, func() { _ = s.jobs.FinishExpiredReservations() }); err != nil {
		return fmt.Errorf("failed to register %s job: %w", jobs.JobFinishExpiredReservations, err)
	}

	// Remind administrators about tomorrow's reservations
	if _, err := s.cron.AddFunc(cfg.RemindUpcomingReservations, func() { _ = s.jobs.RemindUpcomingReservations() }); err != nil {
		return fmt.Errorf("failed to register %s job: %w", jobs.JobRemindUpcomingReservations, err)
	}

	logger.Info("All cron jobs registered successfully", "count", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
