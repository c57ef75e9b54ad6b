package jobs

import (
	"context"

	"skirent-backend/internal/logger"
	"skirent-backend/internal/reservation"
)

// FinishExpiredReservations marks active reservations whose end date has passed as
// FINISHED.
func (jr *JobRunner) FinishExpiredReservations() error {
	return jr.runWithRecovery(JobFinishExpiredReservations, func(ctx context.Context) error {
		today := reservation.Format(jr.today())
		count, err := jr.reservations.FinishExpired(ctx, today)
		if err != nil {
			return err
		}
		logger.Info("Finished expired reservations", "count", count, "today", today)
		return nil
	})
}
