package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
)

const reservationColumns = `id, client_id, status, start_date, end_date, days, total, COALESCE(notes, ''), created_on`

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var res domain.Reservation
	var status string
	var start, end time.Time
	err := row.Scan(&res.ID, &res.ClientID, &status, &start, &end, &res.Days, &res.Total, &res.Notes, &res.CreatedOn)
	if err != nil {
		return res, err
	}
	res.Status = domain.NormalizeStatus(status)
	res.StartDate = start.Format(dateLayout)
	res.EndDate = end.Format(dateLayout)
	return res, nil
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	logger.EnterMethod("reservationRepository.Create", "clientID", res.ClientID, "status", res.Status)

	query := `INSERT INTO reservations (client_id, status, start_date, end_date, days, total, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_on`
	err := r.db.QueryRowContext(ctx, query,
		res.ClientID, res.Status, res.StartDate, res.EndDate, res.Days, res.Total, res.Notes, time.Now(),
	).Scan(&res.ID, &res.CreatedOn)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("reservationRepository.Create", err, "clientID", res.ClientID)
		return err
	}

	logger.ExitMethod("reservationRepository.Create", "reservationID", res.ID)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &res, nil
}

// Update writes the non-nil fields of patch and returns the stored row.
func (r *reservationRepository) Update(ctx context.Context, id int32, patch domain.ReservationPatch) (*domain.Reservation, error) {
	logger.EnterMethod("reservationRepository.Update", "reservationID", id)

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.Days != nil {
		add("days", *patch.Days)
	}
	if patch.Total != nil {
		add("total", *patch.Total)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if len(sets) == 0 {
		logger.ExitMethod("reservationRepository.Update", "reservationID", id, "changed", false)
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE reservations SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), reservationColumns)
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("reservationRepository.Update", err, "reservationID", id)
		return nil, err
	}

	logger.ExitMethod("reservationRepository.Update", "reservationID", id)
	return &res, nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "reservations", "reservationID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err == nil {
		err = requireAffected(res)
	}
	logger.DatabaseResult("DELETE", 0, err, "reservationID", id)
	return mapError(err)
}

func (r *reservationRepository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY created_on DESC`)
}

// ListByClient returns the reservations of a client, newest first. A limit of zero
// or less returns all of them.
func (r *reservationRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE client_id = $1 ORDER BY created_on DESC`
	if limit <= 0 {
		return r.list(ctx, query, clientID)
	}
	return r.list(ctx, query+` LIMIT $2`, clientID, limit)
}

func (r *reservationRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations`).Scan(&count)
	return count, err
}

func (r *reservationRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations WHERE client_id = $1`, clientID).Scan(&count)
	return count, err
}

// FinishExpired marks active reservations that ended before today as finished.
// Legacy status spellings are matched as well.
func (r *reservationRepository) FinishExpired(ctx context.Context, today string) (int64, error) {
	logger.DatabaseCall("UPDATE", "reservations", "before", today)

	query := `UPDATE reservations SET status = $1 WHERE UPPER(status) IN ('ACTIVE', 'ACTIVO') AND end_date < $2`
	res, err := r.db.ExecContext(ctx, query, domain.ReservationStatusFinished, today)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}

func (r *reservationRepository) ListStartingOn(ctx context.Context, date string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE start_date = $1 AND UPPER(status) IN ('ACTIVE', 'ACTIVO') ORDER BY id`
	return r.list(ctx, query, date)
}
