package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
	SecurityAdmin                        // Access token with an administrator role
)

// EndpointSecurityConfig maps gRPC methods and HTTP API route templates ("METHOD /path")
// to their required security level. Health, metrics and image downloads are served
// outside the API router and are not listed.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// gRPC
	"/grpc.health.v1.Health/Check":                                   SecurityPublic,
	"/grpc.health.v1.Health/Watch":                                   SecurityPublic,
	"/skirent.v1.ReservationService/Quote":                           SecurityAccess,
	"/skirent.v1.ReservationService/Submit":                          SecurityAccess,
	"/grpc.reflection.v1.ServerReflection/ServerReflectionInfo":      SecurityPublic,
	"/grpc.reflection.v1alpha.ServerReflection/ServerReflectionInfo": SecurityPublic,

	// HTTP - public
	"POST /api/v1/auth/login":   SecurityPublic,
	"POST /api/v1/auth/refresh": SecurityRefresh,

	// HTTP - any signed-in user
	"GET /api/v1/me":                              SecurityAccess,
	"PATCH /api/v1/me":                            SecurityAccess,
	"GET /api/v1/materials":                       SecurityAccess,
	"GET /api/v1/materials/{id}":                  SecurityAccess,
	"GET /api/v1/categories":                      SecurityAccess,
	"GET /api/v1/roles":                           SecurityAccess,
	"GET /api/v1/reservations":                    SecurityAccess,
	"GET /api/v1/reservations/count":              SecurityAccess,
	"GET /api/v1/reservations/{id}":               SecurityAccess,
	"PUT /api/v1/reservations/{id}":               SecurityAccess,
	"POST /api/v1/reservations":                   SecurityAccess,
	"POST /api/v1/reservations/quote":             SecurityAccess,
	"GET /api/v1/clients/{id}/reservations":       SecurityAccess,
	"GET /api/v1/clients/{id}/reservations/count": SecurityAccess,
	"POST /api/v1/push/tokens":                    SecurityAccess,

	// HTTP - administrators
	"DELETE /api/v1/reservations/{id}": SecurityAdmin,
	"POST /api/v1/materials":           SecurityAdmin,
	"PATCH /api/v1/materials/{id}":     SecurityAdmin,
	"DELETE /api/v1/materials/{id}":    SecurityAdmin,
	"PUT /api/v1/materials/{id}/image": SecurityAdmin,
	"GET /api/v1/clients":              SecurityAdmin,
	"POST /api/v1/clients":             SecurityAdmin,
	"GET /api/v1/clients/{id}":         SecurityAdmin,
	"PATCH /api/v1/clients/{id}":       SecurityAdmin,
	"DELETE /api/v1/clients/{id}":      SecurityAdmin,
	"POST /api/v1/push/send":           SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given method or route
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
