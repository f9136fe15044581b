package mockapi

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/erazemk/katalog/internal/payload"
	"github.com/erazemk/katalog/internal/store"
)

// OptionsHandler handles option endpoints. Options are addressed through
// their attribute.
type OptionsHandler struct {
	DB *sql.DB
}

// Create handles POST /admin/attributes/{attributeId}/options.
func (h *OptionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	attributeID, ok := pathID(r, "attributeId")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}

	var req payload.OptionCreate
	if !decodeBody(w, r, payload.OpCreateOption, &req) {
		return
	}
	req.Label = strings.TrimSpace(req.Label)
	req.Value = strings.TrimSpace(req.Value)

	var msgs []string
	if req.Label == "" {
		msgs = append(msgs, "label should not be empty")
	}
	if req.Value == "" {
		msgs = append(msgs, "value should not be empty")
	}
	msgs = append(msgs, checkOrder(req.DisplayOrder)...)
	if len(msgs) > 0 {
		validationError(w, msgs)
		return
	}

	ctx := r.Context()
	attr, err := store.GetAttribute(ctx, h.DB, attributeID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if attr == nil {
		jsonError(w, http.StatusNotFound, "Attribute not found")
		return
	}
	if !attr.HasOptions() {
		jsonError(w, http.StatusBadRequest, "Options are only allowed for SELECT and MULTISELECT attributes")
		return
	}

	o, err := store.CreateOption(ctx, h.DB, attributeID, req)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	jsonResponse(w, http.StatusCreated, o)
}

// Update handles PATCH /admin/attributes/{attributeId}/options/{optionId}.
func (h *OptionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	attributeID, ok1 := pathID(r, "attributeId")
	optionID, ok2 := pathID(r, "optionId")
	if !ok1 || !ok2 {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}

	var req payload.OptionUpdate
	if !decodeBody(w, r, payload.OpUpdateOption, &req) {
		return
	}

	var msgs []string
	for _, f := range []struct {
		name  string
		value *string
	}{{"label", req.Label}, {"value", req.Value}} {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			msgs = append(msgs, f.name+" should not be empty")
		}
	}
	msgs = append(msgs, checkOrder(req.DisplayOrder)...)
	if len(msgs) > 0 {
		validationError(w, msgs)
		return
	}

	ctx := r.Context()
	existing, err := store.GetOption(ctx, h.DB, attributeID, optionID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "Option not found")
		return
	}

	if err := store.UpdateOption(ctx, h.DB, attributeID, optionID, req); err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	updated, err := store.GetOption(ctx, h.DB, attributeID, optionID)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/attributes/{attributeId}/options/{optionId}.
func (h *OptionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	attributeID, ok1 := pathID(r, "attributeId")
	optionID, ok2 := pathID(r, "optionId")
	if !ok1 || !ok2 {
		jsonError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return
	}
	deleted, err := store.DeleteOption(r.Context(), h.DB, attributeID, optionID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		jsonError(w, http.StatusNotFound, "Option not found")
		return
	}
	jsonResponse(w, http.StatusNoContent, nil)
}
