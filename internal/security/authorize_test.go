package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"skirent-backend/internal/config"
	"skirent-backend/internal/domain"
)

func TestAuthorize(t *testing.T) {
	access := &UserClaims{UserID: "u", RoleID: 1, Type: TokenTypeAccess}
	admin := &UserClaims{UserID: "a", RoleID: domain.RoleIDAdmin, Type: TokenTypeAccess}
	refresh := &UserClaims{UserID: "u", RoleID: domain.RoleIDAdmin, Type: TokenTypeRefresh}

	tests := []struct {
		name   string
		level  config.SecurityLevel
		claims *UserClaims
		want   error
	}{
		{"public without claims", config.SecurityPublic, nil, nil},
		{"access without claims", config.SecurityAccess, nil, ErrInvalidToken},
		{"access token", config.SecurityAccess, access, nil},
		{"refresh on access endpoint", config.SecurityAccess, refresh, ErrWrongTokenType},
		{"refresh token", config.SecurityRefresh, refresh, nil},
		{"access on refresh endpoint", config.SecurityRefresh, access, ErrWrongTokenType},
		{"admin endpoint as customer", config.SecurityAdmin, access, ErrAdminRequired},
		{"admin endpoint as admin", config.SecurityAdmin, admin, nil},
		{"admin refresh token", config.SecurityAdmin, refresh, ErrWrongTokenType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.level, tt.claims))
		})
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	claims := &UserClaims{UserID: "u"}
	got, ok := ClaimsFromContext(WithClaims(context.Background(), claims))
	assert.True(t, ok)
	assert.Same(t, claims, got)
}
