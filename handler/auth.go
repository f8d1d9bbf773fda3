package handler

import (
	"net/http"

	models "catalog-management/model"
)

// Login handles POST /auth/login
// body: { "username": "...", "password": "..." }
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ValidateToken handles GET /auth/validate-token. requireAuth has already
// rejected bad tokens when this runs.
func (h *Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"message": "Token is valid"}
	if c := ClaimsFrom(r.Context()); c != nil {
		resp["subject"] = c.Subject
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Health(r.Context()); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
