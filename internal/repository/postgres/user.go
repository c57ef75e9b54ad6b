package postgres

import (
	"context"
	"database/sql"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
)

const userColumns = `id, role_id, COALESCE(name, ''), COALESCE(surname, ''), email, phone_number,
	       COALESCE(display_name, ''), avatar_url, password_hash`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var phone, avatar sql.NullString
	err := row.Scan(&u.AuthUserID, &u.RoleID, &u.Name, &u.Surname, &u.Email, &phone, &u.DisplayName, &avatar, &u.PasswordHash)
	if err != nil {
		return nil, mapError(err)
	}
	if phone.Valid {
		u.PhoneNumber = &phone.String
	}
	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	logger.EnterMethod("userRepository.Update", "userID", u.AuthUserID)

	query := `UPDATE users SET name=$1, surname=$2, phone_number=$3, display_name=$4, avatar_url=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, u.Name, u.Surname, u.PhoneNumber, u.DisplayName, u.AvatarURL, u.AuthUserID)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("userRepository.Update", err, "userID", u.AuthUserID)
		return err
	}

	logger.ExitMethod("userRepository.Update", "userID", u.AuthUserID)
	return nil
}
