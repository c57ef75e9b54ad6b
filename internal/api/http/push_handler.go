package http

import (
	"net/http"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/push"
	"skirent-backend/internal/service"
)

type PushHandler struct {
	notificationSvc service.NotificationService
}

func NewPushHandler(notificationSvc service.NotificationService) *PushHandler {
	return &PushHandler{notificationSvc: notificationSvc}
}

type registerTokenRequest struct {
	Token      string `json:"token" validate:"required"`
	DeviceName string `json:"device_name"`
}

func (h *PushHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	var req registerTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.notificationSvc.RegisterToken(r.Context(), actorFrom(r), req.Token, req.DeviceName); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendRequest struct {
	Body         string            `json:"body"`
	Title        string            `json:"title"`
	Audience     string            `json:"audience" validate:"omitempty,oneof=all admins"`
	ExcludeToken string            `json:"exclude_token"`
	Data         map[string]string `json:"data"`
}

// Send broadcasts a message. The sender's own device can be left out with exclude_token.
func (h *PushHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.notificationSvc.Broadcast(r.Context(), actorFrom(r), req.Body, push.SendOptions{
		Audience:     domain.PushAudience(req.Audience),
		Title:        req.Title,
		ExcludeToken: req.ExcludeToken,
		Data:         req.Data,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
