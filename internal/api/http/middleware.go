package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"skirent-backend/internal/config"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/security"
)

// RequestObserver receives one call per served request.
type RequestObserver interface {
	ObserveHTTPRequest(route, method string, code int, seconds float64)
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}

// AuthMiddleware validates the bearer token against the security level configured
// for the matched route and stores the claims in the request context.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := config.GetSecurityLevel(r.Method + " " + routeTemplate(r))
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authorization token is not provided")
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token: "+err.Error())
				return
			}
			if err := security.Authorize(level, claims); err != nil {
				status := http.StatusForbidden
				if errors.Is(err, security.ErrInvalidToken) {
					status = http.StatusUnauthorized
				}
				writeError(w, status, "PERMISSION_DENIED", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(security.WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		header = header[7:]
	}
	header = strings.TrimSpace(header)
	return header, header != ""
}

// LoggingMiddleware logs every request and reports it to observer, which may be nil.
func LoggingMiddleware(observer RequestObserver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			route := routeTemplate(r)
			if observer != nil {
				observer.ObserveHTTPRequest(route, r.Method, m.Code, m.Duration.Seconds())
			}

			args := []any{"method", r.Method, "route", route, "status", m.Code, "duration", m.Duration.Round(time.Microsecond)}
			if m.Code >= http.StatusInternalServerError {
				logger.Error("HTTP request", args...)
				return
			}
			logger.Debug("HTTP request", args...)
		})
	}
}

// RecoveryMiddleware turns a handler panic into a 500 response.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
