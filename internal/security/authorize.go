package security

import (
	"context"
	"errors"

	"skirent-backend/internal/config"
)

var ErrAdminRequired = errors.New("administrator role required")

// Authorize checks that claims satisfy the security level of an endpoint.
// Public endpoints accept nil claims.
func Authorize(level config.SecurityLevel, claims *UserClaims) error {
	if level == config.SecurityPublic {
		return nil
	}
	if claims == nil {
		return ErrInvalidToken
	}

	switch level {
	case config.SecurityRefresh:
		if claims.Type != TokenTypeRefresh {
			return ErrWrongTokenType
		}
	case config.SecurityAccess:
		if claims.Type != TokenTypeAccess {
			return ErrWrongTokenType
		}
	default:
		if claims.Type != TokenTypeAccess {
			return ErrWrongTokenType
		}
		if !claims.IsAdmin() {
			return ErrAdminRequired
		}
	}
	return nil
}

type claimsKey struct{}

func WithClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by the transport's auth layer.
func ClaimsFromContext(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*UserClaims)
	return claims, ok && claims != nil
}
