package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/service"
)

type ClientHandler struct {
	clientSvc service.ClientService
}

func NewClientHandler(clientSvc service.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientSvc.ListClients(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.clientSvc.GetClient(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c domain.Client
	if !decodeJSON(w, r, &c) {
		return
	}
	if err := h.clientSvc.CreateClient(r.Context(), actorFrom(r), &c); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.ClientPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	c, err := h.clientSvc.UpdateClient(r.Context(), actorFrom(r), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clientSvc.DeleteClient(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.clientSvc.ListRoles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}
