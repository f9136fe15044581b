package mockapi

import (
	"database/sql"
	"math"
	"net/http"
	"strings"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
	"github.com/erazemk/katalog/internal/store"
)

// AttributesHandler handles attribute CRUD endpoints.
type AttributesHandler struct {
	DB *sql.DB
}

var typeMessage = "type must be one of the following values: " + strings.Join(model.AttributeTypes, ", ")

// List handles GET /admin/categories/{categoryId}/attributes. The response
// is a bare array; each attribute carries its options.
func (h *AttributesHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}
	if !h.categoryExists(w, r, categoryID) {
		return
	}

	attrs, err := store.ListAttributes(r.Context(), h.DB, categoryID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if attrs == nil {
		attrs = []model.Attribute{}
	}
	jsonResponse(w, http.StatusOK, attrs)
}

// Create handles POST /admin/categories/{categoryId}/attributes.
func (h *AttributesHandler) Create(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}

	var req payload.AttributeCreate
	if !decodeBody(w, r, payload.OpCreateAttribute, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	var msgs []string
	if req.Name == "" {
		msgs = append(msgs, "name should not be empty")
	}
	if !model.ValidAttributeType(req.Type) {
		msgs = append(msgs, typeMessage)
	}
	msgs = append(msgs, checkOrder(req.DisplayOrder)...)
	msgs = append(msgs, checkBounds(req.MinValue, req.MaxValue)...)
	if len(msgs) > 0 {
		validationError(w, msgs)
		return
	}
	if req.Type != model.TypeNumber {
		req.MinValue, req.MaxValue = nil, nil
	}

	if !h.categoryExists(w, r, categoryID) {
		return
	}
	a, err := store.CreateAttribute(r.Context(), h.DB, categoryID, req)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	jsonResponse(w, http.StatusCreated, a)
}

// Update handles PATCH /admin/attributes/{id}.
func (h *AttributesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}

	var req payload.AttributeUpdate
	if !decodeBody(w, r, payload.OpUpdateAttribute, &req) {
		return
	}

	var msgs []string
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			msgs = append(msgs, "name should not be empty")
		}
		req.Name = &name
	}
	if req.Type != nil && !model.ValidAttributeType(*req.Type) {
		msgs = append(msgs, typeMessage)
	}
	msgs = append(msgs, checkOrder(req.DisplayOrder)...)

	ctx := r.Context()
	existing, err := store.GetAttribute(ctx, h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "Attribute not found")
		return
	}

	// Bounds are checked against the values they will end up next to.
	lo, hi := existing.MinValue, existing.MaxValue
	if req.MinValue != nil {
		lo = req.MinValue
	}
	if req.MaxValue != nil {
		hi = req.MaxValue
	}
	msgs = append(msgs, checkBounds(lo, hi)...)
	if len(msgs) > 0 {
		validationError(w, msgs)
		return
	}

	if err := store.UpdateAttribute(ctx, h.DB, id, req); err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	updated, err := store.GetAttribute(ctx, h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/attributes/{id}.
func (h *AttributesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}
	deleted, err := store.DeleteAttribute(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		jsonError(w, http.StatusNotFound, "Attribute not found")
		return
	}
	jsonResponse(w, http.StatusNoContent, nil)
}

func (h *AttributesHandler) categoryExists(w http.ResponseWriter, r *http.Request, id int64) bool {
	c, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	if c == nil {
		jsonError(w, http.StatusNotFound, "Category not found")
		return false
	}
	return true
}

// checkOrder requires a non-negative integer display order.
func checkOrder(order *float64) []string {
	if order == nil {
		return nil
	}
	if *order != math.Trunc(*order) {
		return []string{"displayOrder must be an integer number"}
	}
	if *order < 0 {
		return []string{"displayOrder must not be less than 0"}
	}
	return nil
}

func checkBounds(lo, hi *float64) []string {
	if lo != nil && hi != nil && *lo > *hi {
		return []string{"minValue must not be greater than maxValue"}
	}
	return nil
}
