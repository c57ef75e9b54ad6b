package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
)

const clientColumns = `id, role_id, name, COALESCE(surname, ''), email, phone_number, COALESCE(display_name, ''), avatar, created_on`

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func scanClient(row rowScanner) (domain.Client, error) {
	var c domain.Client
	var phone, avatar sql.NullString
	err := row.Scan(&c.ID, &c.RoleID, &c.Name, &c.Surname, &c.Email, &phone, &c.DisplayName, &avatar, &c.CreatedOn)
	if err != nil {
		return c, err
	}
	if phone.Valid {
		c.PhoneNumber = &phone.String
	}
	if avatar.Valid {
		c.Avatar = &avatar.String
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	logger.DatabaseCall("SELECT", "clients")

	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_on DESC`)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	logger.DatabaseResult("SELECT", int64(len(clients)), rows.Err())
	return clients, rows.Err()
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE LOWER(email) = LOWER($1) LIMIT 1`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// Create inserts the client, assigning a fresh UUID when it has none.
func (r *clientRepository) Create(ctx context.Context, c *domain.Client) error {
	logger.EnterMethod("clientRepository.Create", "email", c.Email)

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.DisplayName == "" {
		c.DisplayName = domain.FullName(c.Name, c.Surname)
	}
	c.CreatedOn = time.Now()

	query := `INSERT INTO clients (id, role_id, name, surname, email, phone_number, display_name, avatar, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.RoleID, c.Name, c.Surname, c.Email, c.PhoneNumber, c.DisplayName, c.Avatar, c.CreatedOn)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("clientRepository.Create", err, "email", c.Email)
		return err
	}

	logger.ExitMethod("clientRepository.Create", "clientID", c.ID)
	return nil
}

func (r *clientRepository) Update(ctx context.Context, c *domain.Client) error {
	logger.EnterMethod("clientRepository.Update", "clientID", c.ID)

	query := `UPDATE clients SET role_id=$1, name=$2, surname=$3, email=$4, phone_number=$5, display_name=$6, avatar=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, c.RoleID, c.Name, c.Surname, c.Email, c.PhoneNumber, c.DisplayName, c.Avatar, c.ID)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("clientRepository.Update", err, "clientID", c.ID)
		return err
	}

	logger.ExitMethod("clientRepository.Update", "clientID", c.ID)
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	logger.DatabaseCall("DELETE", "clients", "clientID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err == nil {
		err = requireAffected(res)
	}
	logger.DatabaseResult("DELETE", 0, err, "clientID", id)
	return mapError(err)
}

type roleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, COALESCE(description, '') FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
