package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
	"skirent-backend/internal/reservation"
)

type reservationService struct {
	submitter       *reservation.Submitter
	reservationRepo repository.ReservationRepository
	clientRepo      repository.ClientRepository
	email           EmailService
}

func NewReservationService(submitter *reservation.Submitter, reservationRepo repository.ReservationRepository, clientRepo repository.ClientRepository, email EmailService) ReservationService {
	return &reservationService{
		submitter:       submitter,
		reservationRepo: reservationRepo,
		clientRepo:      clientRepo,
		email:           email,
	}
}

func (s *reservationService) Quote(ctx context.Context, actor domain.Actor, draft reservation.Draft) (reservation.Outcome, error) {
	return s.submitter.Quote(ctx, draft)
}

// Submit creates or updates a reservation on behalf of actor. Non-administrators always
// book for themselves and may only change their own reservations. A confirmation email
// goes out when the reservation becomes active.
func (s *reservationService) Submit(ctx context.Context, actor domain.Actor, req reservation.SubmitRequest) (*domain.Reservation, error) {
	if !actor.IsAdmin() || req.ClientID == "" {
		req.ClientID = actor.UserID
	}
	if req.ReservationID == nil && req.ClientID != actor.UserID {
		if err := s.checkClient(ctx, req.ClientID); err != nil {
			return nil, err
		}
	}

	wasActive := false
	if req.ReservationID != nil {
		existing, err := s.reservationRepo.GetByID(ctx, *req.ReservationID)
		if err != nil {
			return nil, err
		}
		if !actor.CanAccessClient(existing.ClientID) {
			return nil, domain.ErrForbidden
		}
		if req.Draft.Status == "" {
			req.Draft.Status = existing.Status
		}
		wasActive = existing.Status == domain.ReservationStatusActive
	}

	res, err := s.submitter.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	if res.Status == domain.ReservationStatusActive && !wasActive {
		s.sendConfirmation(ctx, res)
	}
	return res, nil
}

// checkClient makes sure an administrator books for a client that exists.
func (s *reservationService) checkClient(ctx context.Context, clientID string) error {
	if _, err := uuid.Parse(clientID); err != nil {
		return fmt.Errorf("client id %q: %w", clientID, domain.ErrInvalid)
	}
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return fmt.Errorf("client %s: %w", clientID, err)
	}
	return nil
}

func (s *reservationService) sendConfirmation(ctx context.Context, res *domain.Reservation) {
	if s.email == nil {
		return
	}
	client, err := s.clientRepo.GetByID(ctx, res.ClientID)
	if err != nil {
		logger.Warn("confirmation email skipped, client lookup failed", "reservationID", res.ID, "error", err)
		return
	}
	if err := s.email.SendReservationConfirmation(ctx, client, res); err != nil {
		logger.Warn("failed to send reservation confirmation", "reservationID", res.ID, "error", err)
	}
}

func (s *reservationService) GetReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessClient(res.ClientID) {
		// do not reveal other clients' reservations
		return nil, domain.ErrNotFound
	}
	return res, nil
}

// DefaultClientListLimit caps ListClientReservations when no positive limit is given.
const DefaultClientListLimit = 5

// ListReservations returns every reservation for administrators and all of the
// actor's own reservations otherwise.
func (s *reservationService) ListReservations(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error) {
	if actor.IsAdmin() {
		return s.reservationRepo.ListAll(ctx)
	}
	return s.reservationRepo.ListByClient(ctx, actor.UserID, 0)
}

// ListClientReservations returns the latest reservations of a client.
func (s *reservationService) ListClientReservations(ctx context.Context, actor domain.Actor, clientID string, limit int) ([]domain.Reservation, error) {
	if !actor.CanAccessClient(clientID) {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = DefaultClientListLimit
	}
	return s.reservationRepo.ListByClient(ctx, clientID, limit)
}

func (s *reservationService) CountReservations(ctx context.Context, actor domain.Actor) (int, error) {
	if actor.IsAdmin() {
		return s.reservationRepo.CountAll(ctx)
	}
	return s.reservationRepo.CountByClient(ctx, actor.UserID)
}

func (s *reservationService) CountClientReservations(ctx context.Context, actor domain.Actor, clientID string) (int, error) {
	if !actor.CanAccessClient(clientID) {
		return 0, domain.ErrForbidden
	}
	return s.reservationRepo.CountByClient(ctx, clientID)
}

func (s *reservationService) DeleteReservation(ctx context.Context, actor domain.Actor, id int32) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.reservationRepo.Delete(ctx, id)
}
