package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/repository"
)

const (
	dateLayout              = "2006-01-02"
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	invalidTextCode         = "22P02"
)

type Store struct {
	db *sql.DB
	repository.MaterialRepository
	repository.CategoryRepository
	repository.ClientRepository
	repository.RoleRepository
	repository.ReservationRepository
	repository.UserRepository
	repository.PushTokenRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		MaterialRepository:    NewMaterialRepository(db),
		CategoryRepository:    NewCategoryRepository(db),
		ClientRepository:      NewClientRepository(db),
		RoleRepository:        NewRoleRepository(db),
		ReservationRepository: NewReservationRepository(db),
		UserRepository:        NewUserRepository(db),
		PushTokenRepository:   NewPushTokenRepository(db),
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// mapError turns driver errors into domain errors. Unique violations are told apart
// by the name of the violated constraint. Malformed ids and references to missing
// rows are caller input errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case uniqueViolationCode:
		switch {
		case strings.Contains(pqErr.Constraint, "email"):
			return domain.ErrEmailTaken
		case strings.Contains(pqErr.Constraint, "phone"):
			return domain.ErrPhoneTaken
		default:
			return domain.ErrDuplicate
		}
	case invalidTextCode:
		return fmt.Errorf("%w: malformed identifier", domain.ErrInvalid)
	case foreignKeyViolationCode:
		return fmt.Errorf("%w: referenced record does not exist or is still in use", domain.ErrInvalid)
	}
	return err
}
