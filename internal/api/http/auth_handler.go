package http

import (
	"net/http"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/service"
)

type AuthHandler struct {
	authSvc    service.AuthService
	profileSvc service.ProfileService
}

func NewAuthHandler(authSvc service.AuthService, profileSvc service.ProfileService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, profileSvc: profileSvc}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, access, refresh, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{User: user, AccessToken: access, RefreshToken: refresh})
}

// RefreshToken exchanges the refresh token of the Authorization header, already
// validated by AuthMiddleware, for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token, _ := bearerToken(r)
	access, refresh, err := h.authSvc.RefreshToken(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileSvc.GetMe(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	user, err := h.profileSvc.UpdateMe(r.Context(), actorFrom(r), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
