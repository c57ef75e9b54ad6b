package http

import (
	"errors"
	"net/http"
	"strconv"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/service"
)

type MaterialHandler struct {
	materialSvc    service.MaterialService
	maxUploadBytes int64
}

func NewMaterialHandler(materialSvc service.MaterialService, maxUploadBytes int64) *MaterialHandler {
	return &MaterialHandler{materialSvc: materialSvc, maxUploadBytes: maxUploadBytes}
}

// List returns the active materials. Administrators may pass ?all=true to include
// inactive ones.
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	materials, err := h.materialSvc.ListMaterials(r.Context(), all && actorFrom(r).IsAdmin())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(w, r, "id")
	if !ok {
		return
	}
	m, err := h.materialSvc.GetMaterial(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m domain.Material
	if !decodeJSON(w, r, &m) {
		return
	}
	if err := h.materialSvc.CreateMaterial(r.Context(), actorFrom(r), &m); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(w, r, "id")
	if !ok {
		return
	}
	var patch domain.MaterialPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	m, err := h.materialSvc.UpdateMaterial(r.Context(), actorFrom(r), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(w, r, "id")
	if !ok {
		return
	}
	if err := h.materialSvc.DeleteMaterial(r.Context(), actorFrom(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage takes the raw image as the request body; Content-Type names its format.
func (h *MaterialHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(w, r, "id")
	if !ok {
		return
	}
	body := r.Body
	if h.maxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	m, err := h.materialSvc.UploadImage(r.Context(), actorFrom(r), id, r.Header.Get("Content-Type"), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MaterialHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.materialSvc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
