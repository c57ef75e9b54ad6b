package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/push"
	"skirent-backend/internal/reservation"
	"skirent-backend/internal/security"
	"skirent-backend/internal/service"
)

var validate = validator.New()

// ErrorResponse is the body of every non-2xx API response. Code is a stable
// machine-readable identifier; rejected reservations use the rejection reason.
type ErrorResponse struct {
	Code    string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeServiceError translates service and domain errors into HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var reason reservation.RejectionReason
	if errors.As(err, &reason) {
		writeError(w, http.StatusUnprocessableEntity, string(reason), reason.Message())
		return
	}
	var ext *reservation.ExternalFailure
	if errors.As(err, &ext) {
		logger.ErrorContext(r.Context(), "collaborator failure", "op", ext.Op, "error", ext.Message)
		writeError(w, http.StatusBadGateway, "EXTERNAL_FAILURE", ext.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrInvalid):
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, domain.ErrPhoneTaken):
		writeError(w, http.StatusConflict, "PHONE_TAKEN", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		writeError(w, http.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, service.ErrEmailInvalid):
		writeError(w, http.StatusBadRequest, err.Error(), "email address is not valid")
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrPasswordInvalid):
		// one answer for both so accounts cannot be enumerated
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "email or password is incorrect")
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, security.ErrInvalidToken), errors.Is(err, security.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", err.Error())
	case errors.Is(err, push.ErrEmptyMessage), errors.Is(err, push.ErrNoRecipients):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "")
	default:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

// decodeJSON reads a JSON body into v and runs struct validation on it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return false
	}
	return true
}

func pathInt32(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid "+name)
		return 0, false
	}
	return int32(v), true
}

func actorFrom(r *http.Request) domain.Actor {
	claims, ok := security.ClaimsFromContext(r.Context())
	if !ok {
		return domain.Actor{}
	}
	return claims.Actor()
}
