package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
)

// clientNotifier is the part of NotificationService the client service needs.
type clientNotifier interface {
	NotifyNewClient(ctx context.Context, c *domain.Client) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	roleRepo   repository.RoleRepository
	notifier   clientNotifier
	validate   *validator.Validate
}

func NewClientService(clientRepo repository.ClientRepository, roleRepo repository.RoleRepository, notifier clientNotifier) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		roleRepo:   roleRepo,
		notifier:   notifier,
		validate:   validator.New(),
	}
}

func (s *clientService) ListClients(ctx context.Context, actor domain.Actor) ([]domain.Client, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.clientRepo.List(ctx)
}

func (s *clientService) GetClient(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error) {
	if !actor.CanAccessClient(id) {
		return nil, domain.ErrForbidden
	}
	return s.clientRepo.GetByID(ctx, id)
}

// CreateClient stores the client and lets administrators know. A failed notification
// does not undo the creation.
func (s *clientService) CreateClient(ctx context.Context, actor domain.Actor, c *domain.Client) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := s.validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	if c.RoleID == 0 {
		c.RoleID = 1
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewClient(ctx, c); err != nil {
			logger.Warn("failed to notify administrators about new client", "clientID", c.ID, "error", err)
		}
	}
	return nil
}

func (s *clientService) UpdateClient(ctx context.Context, actor domain.Actor, id string, patch domain.ClientPatch) (*domain.Client, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}

	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := s.clientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.clientRepo.Delete(ctx, id)
}

func (s *clientService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roleRepo.List(ctx)
}
