package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
)

type pushTokenRepository struct {
	db *sql.DB
}

func NewPushTokenRepository(db *sql.DB) repository.PushTokenRepository {
	return &pushTokenRepository{db: db}
}

// Upsert stores the device token, moving it to the new owner if it was registered before.
func (r *pushTokenRepository) Upsert(ctx context.Context, t *domain.PushToken) error {
	logger.DatabaseCall("UPSERT", "push_tokens", "userID", t.UserID)

	query := `INSERT INTO push_tokens (token, user_id, device_name, created_on) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, device_name = EXCLUDED.device_name`
	t.CreatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, t.Token, t.UserID, t.DeviceName, t.CreatedOn)
	logger.DatabaseResult("UPSERT", 1, err, "userID", t.UserID)
	return err
}

// ListTokens returns the distinct device tokens of the audience.
func (r *pushTokenRepository) ListTokens(ctx context.Context, audience domain.PushAudience) ([]string, error) {
	var rows *sql.Rows
	var err error
	switch audience {
	case domain.PushAudienceAll, "":
		rows, err = r.db.QueryContext(ctx, `SELECT DISTINCT token FROM push_tokens`)
	case domain.PushAudienceAdmins:
		rows, err = r.db.QueryContext(ctx, `SELECT DISTINCT t.token FROM push_tokens t
		          JOIN users u ON u.id = t.user_id WHERE u.role_id = $1`, domain.RoleIDAdmin)
	default:
		return nil, fmt.Errorf("%w: unknown push audience %q", domain.ErrInvalid, audience)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
