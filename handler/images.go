package handler

import (
	"errors"
	"fmt"
	"net/http"

	"catalog-management/apperr"
	"catalog-management/service"
)

// UploadImage handles POST /images/upload/{productId}
// multipart/form-data with a single "file" part.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", h.opts.MaxUploadBytes))
			return
		}
		h.writeAppErr(w, r, apperr.InvalidErr("expected multipart form with a file", map[string]string{"file": "is required"}))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeAppErr(w, r, apperr.InvalidErr("file is required", map[string]string{"file": "is required"}))
		return
	}
	defer file.Close()

	img, err := h.svc.UploadImage(r.Context(), productID, service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/images/%d", img.ID))
	writeJSON(w, http.StatusCreated, img)
}

// DeleteImage handles DELETE /images/{imageId}
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "imageId")
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	if err := h.svc.DeleteImage(r.Context(), id); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
