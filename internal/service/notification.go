package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/push"
	"skirent-backend/internal/repository"
)

type notificationService struct {
	tokenRepo  repository.PushTokenRepository
	dispatcher *push.Dispatcher
}

func NewNotificationService(tokenRepo repository.PushTokenRepository, dispatcher *push.Dispatcher) NotificationService {
	return &notificationService{tokenRepo: tokenRepo, dispatcher: dispatcher}
}

func (s *notificationService) RegisterToken(ctx context.Context, actor domain.Actor, token, deviceName string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: push token is required", domain.ErrInvalid)
	}
	return s.tokenRepo.Upsert(ctx, &domain.PushToken{
		Token:      token,
		UserID:     actor.UserID,
		DeviceName: strings.TrimSpace(deviceName),
	})
}

func (s *notificationService) Broadcast(ctx context.Context, actor domain.Actor, body string, opts push.SendOptions) (push.Result, error) {
	if !actor.IsAdmin() {
		return push.Result{}, domain.ErrForbidden
	}
	return s.dispatcher.Send(ctx, body, opts)
}

func (s *notificationService) NotifyNewClient(ctx context.Context, c *domain.Client) error {
	body := fmt.Sprintf("New client: %s (%s)", domain.FullName(c.Name, c.Surname), c.Email)
	_, err := s.dispatcher.Send(ctx, body, push.SendOptions{
		Audience: domain.PushAudienceAdmins,
		Title:    "New client",
		Data:     map[string]string{"client_id": c.ID},
	})
	if errors.Is(err, push.ErrNoRecipients) {
		return nil
	}
	return err
}

// NotifyUpcomingReservations tells administrators which reservations start on date.
func (s *notificationService) NotifyUpcomingReservations(ctx context.Context, date string, reservations []domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	ids := make([]string, 0, len(reservations))
	for _, r := range reservations {
		ids = append(ids, strconv.Itoa(int(r.ID)))
	}
	body := fmt.Sprintf("%d reservation(s) start on %s: #%s", len(reservations), date, strings.Join(ids, ", #"))
	_, err := s.dispatcher.Send(ctx, body, push.SendOptions{
		Audience: domain.PushAudienceAdmins,
		Title:    "Upcoming reservations",
		Data:     map[string]string{"date": date},
	})
	if errors.Is(err, push.ErrNoRecipients) {
		return nil
	}
	return err
}
