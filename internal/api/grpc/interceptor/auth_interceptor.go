package interceptor

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"skirent-backend/internal/config"
	"skirent-backend/internal/security"
)

type AuthInterceptor struct {
	tokenManager security.TokenManager
}

func NewAuthInterceptor(tm security.TokenManager) *AuthInterceptor {
	return &AuthInterceptor{tokenManager: tm}
}

// Unary returns a server interceptor function to authenticate and authorize unary RPCs
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		level := config.GetSecurityLevel(info.FullMethod)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			return handler(ctx, req)
		}

		ctx, err := i.authorize(ctx, level)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// Stream covers the streaming health watch and reflection endpoints.
func (i *AuthInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		level := config.GetSecurityLevel(info.FullMethod)
		if level == config.SecurityPublic {
			return handler(srv, ss)
		}
		if _, err := i.authorize(ss.Context(), level); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

func (i *AuthInterceptor) authorize(ctx context.Context, level config.SecurityLevel) (context.Context, error) {
	token, err := i.extractToken(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := i.tokenManager.ValidateToken(token)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
	}

	if err := security.Authorize(level, claims); err != nil {
		if errors.Is(err, security.ErrInvalidToken) {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return nil, status.Error(codes.PermissionDenied, err.Error())
	}

	// Claims travel in the context; a client-sent "user-id" header is never trusted.
	return security.WithClaims(ctx, claims), nil
}

func (i *AuthInterceptor) extractToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	authHeader := md["authorization"]
	if len(authHeader) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	token := authHeader[0]
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}

	return token, nil
}
