package service

import (
	"context"
	"io"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/push"
	"skirent-backend/internal/reservation"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error) // user, access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type ProfileService interface {
	GetMe(ctx context.Context, actor domain.Actor) (*domain.User, error)
	UpdateMe(ctx context.Context, actor domain.Actor, patch domain.ProfilePatch) (*domain.User, error)
}

type MaterialService interface {
	ListMaterials(ctx context.Context, includeInactive bool) ([]domain.Material, error)
	GetMaterial(ctx context.Context, id int32) (*domain.Material, error)
	CreateMaterial(ctx context.Context, actor domain.Actor, m *domain.Material) error
	UpdateMaterial(ctx context.Context, actor domain.Actor, id int32, patch domain.MaterialPatch) (*domain.Material, error)
	DeleteMaterial(ctx context.Context, actor domain.Actor, id int32) error
	UploadImage(ctx context.Context, actor domain.Actor, id int32, contentType string, r io.Reader) (*domain.Material, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type ClientService interface {
	ListClients(ctx context.Context, actor domain.Actor) ([]domain.Client, error)
	GetClient(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error)
	CreateClient(ctx context.Context, actor domain.Actor, c *domain.Client) error
	UpdateClient(ctx context.Context, actor domain.Actor, id string, patch domain.ClientPatch) (*domain.Client, error)
	DeleteClient(ctx context.Context, actor domain.Actor, id string) error
	ListRoles(ctx context.Context) ([]domain.Role, error)
}

type ReservationService interface {
	Quote(ctx context.Context, actor domain.Actor, draft reservation.Draft) (reservation.Outcome, error)
	Submit(ctx context.Context, actor domain.Actor, req reservation.SubmitRequest) (*domain.Reservation, error)
	GetReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error)
	ListReservations(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error)
	ListClientReservations(ctx context.Context, actor domain.Actor, clientID string, limit int) ([]domain.Reservation, error)
	CountReservations(ctx context.Context, actor domain.Actor) (int, error)
	CountClientReservations(ctx context.Context, actor domain.Actor, clientID string) (int, error)
	DeleteReservation(ctx context.Context, actor domain.Actor, id int32) error
}

type NotificationService interface {
	RegisterToken(ctx context.Context, actor domain.Actor, token, deviceName string) error
	Broadcast(ctx context.Context, actor domain.Actor, body string, opts push.SendOptions) (push.Result, error)
	NotifyNewClient(ctx context.Context, c *domain.Client) error
	NotifyUpcomingReservations(ctx context.Context, date string, reservations []domain.Reservation) error
}

type EmailService interface {
	SendReservationConfirmation(ctx context.Context, to *domain.Client, r *domain.Reservation) error
}
