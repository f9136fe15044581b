package mockapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
	"github.com/erazemk/katalog/internal/store"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// CategoriesHandler handles category CRUD endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type categoryList struct {
	Meta  model.ListMeta   `json:"meta"`
	Items []model.Category `json:"items"`
}

// List handles GET /admin/categories. The response is an envelope with
// pagination metadata.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageLimit)
	if page < 1 || limit < 1 {
		validationError(w, []string{"page and limit must be positive integers"})
		return
	}
	limit = min(limit, maxPageLimit)

	total, err := store.CountCategories(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items, err := store.ListCategories(r.Context(), h.DB, limit, (page-1)*limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if items == nil {
		items = []model.Category{}
	}

	jsonResponse(w, http.StatusOK, categoryList{
		Meta: model.ListMeta{
			Page:      page,
			Limit:     limit,
			Total:     total,
			Pages:     (total + limit - 1) / limit,
			SortBy:    "name",
			SortOrder: "asc",
		},
		Items: items,
	})
}

// Get handles GET /admin/categories/{id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}
	c, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if c == nil {
		jsonError(w, http.StatusNotFound, "Category not found")
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Create handles POST /admin/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req payload.CategoryCreate
	if !decodeBody(w, r, payload.OpCreateCategory, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		validationError(w, []string{"name should not be empty"})
		return
	}

	c, err := store.CreateCategory(r.Context(), h.DB, req.Name, req.Description)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	jsonResponse(w, http.StatusCreated, c)
}

// Update handles PATCH /admin/categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}

	var req payload.CategoryUpdate
	if !decodeBody(w, r, payload.OpUpdateCategory, &req) {
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			validationError(w, []string{"name should not be empty"})
			return
		}
		req.Name = &name
	}

	ctx := r.Context()
	existing, err := store.GetCategory(ctx, h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := store.UpdateCategory(ctx, h.DB, id, req.Name, req.Description); err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	updated, err := store.GetCategory(ctx, h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/categories/{id}. Attributes and options of
// the category are deleted with it.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}
	deleted, err := store.DeleteCategory(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		jsonError(w, http.StatusNotFound, "Category not found")
		return
	}
	jsonResponse(w, http.StatusNoContent, nil)
}

// queryInt returns the integer query parameter name, or def when it is
// absent. A malformed value yields 0.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
