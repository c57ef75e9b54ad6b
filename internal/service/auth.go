package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/repository"
	"skirent-backend/internal/security"
)

var (
	ErrEmailInvalid    = errors.New("EMAIL_INVALID")
	ErrUserNotFound    = errors.New("USER_NOT_FOUND")
	ErrPasswordInvalid = errors.New("PASSWORD_INVALID")
	ErrInvalidToken    = errors.New("invalid token")
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login checks the credentials and refreshes the stored display name to "name surname"
// when it has drifted.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, "", "", ErrEmailInvalid
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrUserNotFound
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrPasswordInvalid
	}

	if nickname := domain.FullName(user.Name, user.Surname); nickname != "" && user.DisplayName != nickname {
		user.DisplayName = nickname
		if err := s.userRepo.Update(ctx, user); err != nil {
			logger.Warn("failed to refresh display name", "userID", user.AuthUserID, "error", err)
		}
	}

	access, refresh, err := s.generateTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	logger.Info("user logged in", "userID", user.AuthUserID)
	return user, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	// reload so that role changes take effect on refresh
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	return s.generateTokens(user)
}

func (s *authService) generateTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
