package service

import (
	"context"
	"fmt"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/repository"
)

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetMe(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, actor.UserID)
}

func (s *profileService) UpdateMe(ctx context.Context, actor domain.Actor, patch domain.ProfilePatch) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return user, nil
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Surname != nil {
		user.Surname = *patch.Surname
	}
	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = patch.PhoneNumber
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = patch.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
