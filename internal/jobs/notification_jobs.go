package jobs

import (
	"context"

	"skirent-backend/internal/logger"
	"skirent-backend/internal/reservation"
)

// RemindUpcomingReservations tells administrators which active reservations start
// tomorrow.
func (jr *JobRunner) RemindUpcomingReservations() error {
	return jr.runWithRecovery(JobRemindUpcomingReservations, func(ctx context.Context) error {
		tomorrow := reservation.Format(jr.today().AddDate(0, 0, 1))
		upcoming, err := jr.reservations.ListStartingOn(ctx, tomorrow)
		if err != nil {
			return err
		}
		if len(upcoming) == 0 {
			logger.Debug("No reservations start tomorrow", "date", tomorrow)
			return nil
		}
		if err := jr.notifier.NotifyUpcomingReservations(ctx, tomorrow, upcoming); err != nil {
			return err
		}
		logger.Info("Sent upcoming reservation reminder", "date", tomorrow, "count", len(upcoming))
		return nil
	})
}
