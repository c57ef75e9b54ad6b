package jobs

import (
	"context"
	"fmt"
	"time"

	"skirent-backend/internal/config"
	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/reservation"
)

const (
	JobFinishExpiredReservations  = "finish_expired_reservations"
	JobRemindUpcomingReservations = "remind_upcoming_reservations"
)

// ReservationStore is the part of the reservation repository the jobs use.
type ReservationStore interface {
	FinishExpired(ctx context.Context, today string) (int64, error)
	ListStartingOn(ctx context.Context, date string) ([]domain.Reservation, error)
}

type UpcomingNotifier interface {
	NotifyUpcomingReservations(ctx context.Context, date string, reservations []domain.Reservation) error
}

// Recorder receives the result and duration of each run.
type Recorder interface {
	ObserveJob(job, result string, seconds float64)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	reservations ReservationStore
	notifier     UpcomingNotifier
	clock        reservation.Clock
	recorder     Recorder
	config       *config.Config
	timeout      time.Duration
}

// NewJobRunner creates a new job runner with all dependencies. recorder may be nil.
func NewJobRunner(reservations ReservationStore, notifier UpcomingNotifier, clock reservation.Clock, recorder Recorder, cfg *config.Config) *JobRunner {
	if clock == nil {
		clock = reservation.SystemClock{Location: cfg.Location()}
	}
	return &JobRunner{
		reservations: reservations,
		notifier:     notifier,
		clock:        clock,
		recorder:     recorder,
		config:       cfg,
		timeout:      5 * time.Minute,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	result := "success"
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			result = "panic"
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		if jr.recorder != nil {
			jr.recorder.ObserveJob(jobName, result, time.Since(start).Seconds())
		}
	}()

	log := logger.WithJob(jobName)
	log.Info("Starting job")
	if err = jobFunc(ctx); err != nil {
		result = "error"
		log.Error("Job failed", "error", err, "duration", time.Since(start))
		return err
	}
	log.Info("Job completed", "duration", time.Since(start))
	return nil
}

// today is the current date in the shop's time zone, as stored in the database.
func (jr *JobRunner) today() time.Time {
	return reservation.Today(jr.clock)
}

// RunAllDailyJobs runs all daily jobs (for manual execution) and returns the first error.
func (jr *JobRunner) RunAllDailyJobs() error {
	errFinish := jr.FinishExpiredReservations()
	errRemind := jr.RemindUpcomingReservations()
	if errFinish != nil {
		return errFinish
	}
	return errRemind
}
