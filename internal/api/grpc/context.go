package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/security"
)

// GetActorFromContext returns the caller placed in the context by the auth interceptor.
func GetActorFromContext(ctx context.Context) (domain.Actor, error) {
	claims, ok := security.ClaimsFromContext(ctx)
	if !ok {
		return domain.Actor{}, status.Errorf(codes.Unauthenticated, "caller is not authenticated")
	}
	return claims.Actor(), nil
}
