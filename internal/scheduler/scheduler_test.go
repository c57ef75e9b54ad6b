package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skirent-backend/internal/config"
	"skirent-backend/internal/domain"
	"skirent-backend/internal/jobs"
)

type noopStore struct{}

func (noopStore) FinishExpired(ctx context.Context, today string) (int64, error) { return 0, nil }
func (noopStore) ListStartingOn(ctx context.Context, date string) ([]domain.Reservation, error) {
	return nil, nil
}

func newConfig(finish, remind string) *config.Config {
	cfg := &config.Config{}
	cfg.Reservation.Timezone = "UTC"
	cfg.Scheduler.FinishExpiredReservations = finish
	cfg.Scheduler.RemindUpcomingReservations = remind
	return cfg
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	runner := jobs.NewJobRunner(noopStore{}, nil, nil, nil, newConfig("0 5 0 * * *", "0 0 18 * * *"))
	s, err := NewScheduler(runner)
	require.NoError(t, err)
	assert.True(t, s.IsRunning())
	assert.Len(t, s.cron.Entries(), 2)

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	runner := jobs.NewJobRunner(noopStore{}, nil, nil, nil, newConfig("every day", "0 0 18 * * *"))
	_, err := NewScheduler(runner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish_expired_reservations")
}
