package api

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"bytecart/internal/media"
)

// UploadHandler handles item image uploads.
type UploadHandler struct {
	Media  *media.Store
	Logger *logrus.Logger
}

// UploadImage handles POST /api/items/upload-image. The stored image is
// served from /uploads/ and the returned URL goes into the item's imageUrl
// field on a later create or update.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes)

	if err := r.ParseMultipartForm(media.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	url, err := h.Media.Save(file)
	if errors.Is(err, media.ErrUnsupportedFormat) {
		jsonError(w, http.StatusBadRequest, "only image files are allowed")
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("failed to store uploaded image")
		jsonError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"imageUrl": url,
		"message":  "image uploaded successfully",
	})
}
