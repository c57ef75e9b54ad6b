package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skirent-backend/internal/domain"
)

var reservationRowColumns = []string{"id", "client_id", "status", "start_date", "end_date", "days", "total", "notes", "created_on"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func date(s string) time.Time {
	d, _ := time.Parse(dateLayout, s)
	return d
}

func TestReservationRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepository(db)

	res := &domain.Reservation{
		ClientID:  "c-1",
		Status:    domain.ReservationStatusDraft,
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
		Days:      3,
		Total:     60,
		Notes:     "Material: Burton Custom",
	}
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO reservations").
		WithArgs("c-1", domain.ReservationStatusDraft, "2025-06-10", "2025-06-12", 3, 60.0, "Material: Burton Custom", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(11, created))

	require.NoError(t, repo.Create(context.Background(), res))
	assert.Equal(t, int32(11), res.ID)
	assert.Equal(t, created, res.CreatedOn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	t.Run("normalizes legacy status", func(t *testing.T) {
		rows := sqlmock.NewRows(reservationRowColumns).
			AddRow(1, "c-1", "ACTIVO", date("2025-06-10"), date("2025-06-12"), 3, 60.0, "Material: Helmet", time.Now())
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \$1`).WithArgs(int32(1)).WillReturnRows(rows)

		res, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusActive, res.Status)
		assert.Equal(t, "2025-06-10", res.StartDate)
		assert.Equal(t, "Helmet", res.MaterialName())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \$1`).WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows(reservationRowColumns))

		_, err := repo.GetByID(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationRepository_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	status := domain.ReservationStatusActive
	total := 45.5
	t.Run("writes only patched columns", func(t *testing.T) {
		rows := sqlmock.NewRows(reservationRowColumns).
			AddRow(3, "c-1", "ACTIVE", date("2025-06-10"), date("2025-06-12"), 3, 45.5, "", time.Now())
		mock.ExpectQuery(`UPDATE reservations SET status = \$1, total = \$2 WHERE id = \$3 RETURNING`).
			WithArgs(status, total, int32(3)).
			WillReturnRows(rows)

		res, err := repo.Update(ctx, 3, domain.ReservationPatch{Status: &status, Total: &total})
		require.NoError(t, err)
		assert.Equal(t, 45.5, res.Total)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE reservations SET status = \$1 WHERE id = \$2`).
			WithArgs(status, int32(4)).
			WillReturnRows(sqlmock.NewRows(reservationRowColumns))

		_, err := repo.Update(ctx, 4, domain.ReservationPatch{Status: &status})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_ListByClient(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	t.Run("no limit", func(t *testing.T) {
		rows := sqlmock.NewRows(reservationRowColumns).
			AddRow(9, "c-1", "BORRADOR", date("2025-07-01"), date("2025-07-02"), 2, 0.0, "", time.Now()).
			AddRow(8, "c-1", "TERMINADO", date("2025-05-01"), date("2025-05-02"), 2, 30.0, "", time.Now())
		mock.ExpectQuery(`FROM reservations WHERE client_id = \$1 ORDER BY created_on DESC$`).
			WithArgs("c-1").
			WillReturnRows(rows)

		list, err := repo.ListByClient(ctx, "c-1", 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, domain.ReservationStatusDraft, list[0].Status)
		assert.Equal(t, domain.ReservationStatusFinished, list[1].Status)
	})

	t.Run("limited", func(t *testing.T) {
		rows := sqlmock.NewRows(reservationRowColumns).
			AddRow(9, "c-1", "ACTIVO", date("2025-07-01"), date("2025-07-02"), 2, 0.0, "", time.Now())
		mock.ExpectQuery(`FROM reservations WHERE client_id = \$1 ORDER BY created_on DESC LIMIT \$2`).
			WithArgs("c-1", 1).
			WillReturnRows(rows)

		list, err := repo.ListByClient(ctx, "c-1", 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.ReservationStatusActive, list[0].Status)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_Counts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM reservations$`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT count\(\*\) FROM reservations WHERE client_id = \$1`).WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	all, err := repo.CountAll(ctx)
	require.NoError(t, err)
	mine, err := repo.CountByClient(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 12, all)
	assert.Equal(t, 2, mine)
}

func TestReservationRepository_FinishExpired(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepository(db)

	mock.ExpectExec(`UPDATE reservations SET status = \$1 WHERE UPPER\(status\) IN`).
		WithArgs(domain.ReservationStatusFinished, "2025-06-10").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.FinishExpired(context.Background(), "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestReservationRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepository(db)

	mock.ExpectExec(`DELETE FROM reservations WHERE id = \$1`).WithArgs(int32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), domain.ErrNotFound)
}
