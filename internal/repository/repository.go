package repository

import (
	"context"

	"skirent-backend/internal/domain"
)

type MaterialRepository interface {
	List(ctx context.Context) ([]domain.Material, error)
	ListActive(ctx context.Context) ([]domain.Material, error)
	GetByID(ctx context.Context, id int32) (*domain.Material, error)
	Create(ctx context.Context, m *domain.Material) error
	Update(ctx context.Context, m *domain.Material) error
	Delete(ctx context.Context, id int32) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	Create(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	Update(ctx context.Context, id int32, patch domain.ReservationPatch) (*domain.Reservation, error)
	Delete(ctx context.Context, id int32) error
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]domain.Reservation, error)
	CountAll(ctx context.Context) (int, error)
	CountByClient(ctx context.Context, clientID string) (int, error)

	// Scheduled maintenance
	FinishExpired(ctx context.Context, today string) (int64, error)
	ListStartingOn(ctx context.Context, date string) ([]domain.Reservation, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type PushTokenRepository interface {
	Upsert(ctx context.Context, t *domain.PushToken) error
	ListTokens(ctx context.Context, audience domain.PushAudience) ([]string, error)
}
