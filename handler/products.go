package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cast"

	"catalog-management/apperr"
	models "catalog-management/model"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, apperr.InvalidErr("invalid query parameter", map[string]string{name: "must be an integer"})
	}
	return n, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := cast.ToInt64E(mux.Vars(r)[name])
	if err != nil {
		return 0, apperr.InvalidErr("invalid id", map[string]string{name: "must be an integer"})
	}
	return id, nil
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// ListProducts handles GET /products?categoryId&page&pageSize
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryInt(r, "categoryId", 0)
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", defaultPageSize)
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}

	res, err := h.svc.ListProducts(r.Context(), int64(categoryID), page, pageSize)
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.Product
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/products/%d", p.ID))
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	var req models.Product
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	if err := h.svc.UpdateProduct(r.Context(), id, req); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderGlobal handles POST /products/reorder/global
// body: [{ "productId": 3, "order": 1 }, ...]
func (h *Handler) ReorderGlobal(w http.ResponseWriter, r *http.Request) {
	var items []models.ReorderItem
	if err := decodeJSON(r, &items); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	if err := h.svc.ReorderGlobal(r.Context(), items); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderCategory handles POST /products/reorder/category/{categoryId}
func (h *Handler) ReorderCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	var items []models.ReorderItem
	if err := decodeJSON(r, &items); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	if err := h.svc.ReorderCategory(r.Context(), categoryID, items); err != nil {
		h.writeAppErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
