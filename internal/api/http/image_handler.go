package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"skirent-backend/internal/logger"
	"skirent-backend/internal/storage"
)

// ImageHandler serves stored material images.
type ImageHandler struct {
	images storage.ImageStore
}

func NewImageHandler(images storage.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

// Download streams the image stored under the {key} path variable.
func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, err := h.images.Open(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidKey):
			http.Error(w, "Invalid key", http.StatusBadRequest)
		case errors.Is(err, storage.ErrFileMissing):
			http.Error(w, "File not found", http.StatusNotFound)
		default:
			logger.Error("failed to open image", "key", key, "error", err)
			http.Error(w, "Failed to read file", http.StatusInternalServerError)
		}
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("image download interrupted", "key", key, "error", err)
	}
}
