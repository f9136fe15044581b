// Package catalog keeps the admin front-end's view of the category,
// attribute and option collections in step with the backend. Every mutation
// is followed by a refetch; local state is never patched.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
)

// ErrNoCategory is returned when an attribute is created with no category
// selected.
var ErrNoCategory = errors.New("no category selected")

// Messages shown after failed fetches and deletes.
const (
	MsgCategoriesLoad  = "Kategorij ni bilo mogoče naložiti."
	MsgAttributesLoad  = "Atributov ni bilo mogoče naložiti."
	MsgCategoryDelete  = "Kategorije ni bilo mogoče izbrisati."
	MsgAttributeDelete = "Atributa ni bilo mogoče izbrisati."
	MsgOptionDelete    = "Možnosti ni bilo mogoče izbrisati."
)

// Backend is the part of the REST API the synchronizer uses.
// *client.Client implements it.
type Backend interface {
	ListCategories(ctx context.Context) (client.Sequence[model.Category], error)
	CreateCategory(ctx context.Context, body payload.CategoryCreate) error
	UpdateCategory(ctx context.Context, id int64, body payload.CategoryUpdate) error
	DeleteCategory(ctx context.Context, id int64) error

	ListAttributes(ctx context.Context, categoryID int64) ([]model.Attribute, error)
	CreateAttribute(ctx context.Context, categoryID int64, body payload.AttributeCreate) error
	UpdateAttribute(ctx context.Context, id int64, body payload.AttributeUpdate) error
	DeleteAttribute(ctx context.Context, id int64) error

	CreateOption(ctx context.Context, attributeID int64, body payload.OptionCreate) error
	UpdateOption(ctx context.Context, attributeID, optionID int64, body payload.OptionUpdate) error
	DeleteOption(ctx context.Context, attributeID, optionID int64) error
}

// Synchronizer holds one user's view of the catalog.
type Synchronizer struct {
	backend Backend
	logger  *slog.Logger

	categories *List[model.Category]
	attributes *List[model.Attribute]

	mu       sync.Mutex
	selected int64
	surface  Surface
	notice   string
}

// New returns a synchronizer with both lists Unloaded. A failed category
// fetch keeps the previous categories; a failed attribute fetch clears the
// attributes.
func New(backend Backend, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		backend:    backend,
		logger:     logger,
		categories: NewList[model.Category](PreserveOnError),
		attributes: NewList[model.Attribute](ClearOnError),
	}
}

// Categories returns the category list.
func (s *Synchronizer) Categories() Snapshot[model.Category] {
	return s.categories.Snapshot()
}

// Attributes returns the attribute list of the selected category.
func (s *Synchronizer) Attributes() Snapshot[model.Attribute] {
	return s.attributes.Snapshot()
}

// Selected returns the selected category ID, or 0.
func (s *Synchronizer) Selected() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Notice returns the message of the last failed fetch or delete.
func (s *Synchronizer) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

func (s *Synchronizer) setNotice(msg string) {
	s.mu.Lock()
	s.notice = msg
	s.mu.Unlock()
}

// Surface returns the open edit form.
func (s *Synchronizer) Surface() Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// OpenSurface opens an edit form, replacing any open one.
func (s *Synchronizer) OpenSurface(surface Surface) {
	s.mu.Lock()
	s.surface = surface
	s.mu.Unlock()
}

// CloseSurface closes the open edit form.
func (s *Synchronizer) CloseSurface() {
	s.OpenSurface(Surface{})
}

// FetchCategories reloads the category list.
func (s *Synchronizer) FetchCategories(ctx context.Context) error {
	gen := s.categories.begin()
	s.setNotice("")

	seq, err := s.backend.ListCategories(ctx)
	if !s.categories.finish(gen, seq.Items, err) {
		return err
	}
	if err != nil {
		s.setNotice(MsgCategoriesLoad)
	}
	return err
}

// CreateCategory creates a category from form values. On success the form
// closes and the list is reloaded; on failure the error is returned and the
// form stays open.
func (s *Synchronizer) CreateCategory(ctx context.Context, form payload.Form) error {
	if err := s.backend.CreateCategory(ctx, payload.NormalizeCreateCategory(form)); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchCategories)
	return nil
}

// UpdateCategory patches a category from form values.
func (s *Synchronizer) UpdateCategory(ctx context.Context, id int64, form payload.Form) error {
	if err := s.backend.UpdateCategory(ctx, id, payload.NormalizeUpdateCategory(form)); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchCategories)
	return nil
}

// RemoveCategory deletes a category once confirm agrees. It reports whether
// the category was deleted. Failures are shown through Notice.
func (s *Synchronizer) RemoveCategory(ctx context.Context, id int64, confirm Confirmer) bool {
	if !confirm.Confirm(ctx, PromptDeleteCategory) {
		return false
	}
	if err := s.backend.DeleteCategory(ctx, id); err != nil {
		s.logger.Warn("deleting category", "id", id, "error", err)
		s.setNotice(MsgCategoryDelete)
		return false
	}
	_ = s.FetchCategories(ctx)
	return true
}

// SelectCategory switches the attribute view to another category. The
// attribute list is reset before this returns, then reloaded. An id of 0
// clears the selection.
func (s *Synchronizer) SelectCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.selected = id
	s.attributes.reset()
	s.mu.Unlock()

	if id == 0 {
		return nil
	}
	return s.FetchAttributes(ctx)
}

// FetchAttributes reloads the attributes of the selected category. It does
// nothing when no category is selected.
func (s *Synchronizer) FetchAttributes(ctx context.Context) error {
	s.mu.Lock()
	categoryID := s.selected
	if categoryID == 0 {
		s.mu.Unlock()
		return nil
	}
	// The generation is taken with the selection so that a fetch started
	// for a category that is no longer selected can never be applied.
	gen := s.attributes.begin()
	s.notice = ""
	s.mu.Unlock()

	items, err := s.backend.ListAttributes(ctx, categoryID)
	if !s.attributes.finish(gen, items, err) {
		return err
	}
	if err != nil {
		s.setNotice(MsgAttributesLoad)
	}
	return err
}

// CreateAttribute creates an attribute in the selected category.
func (s *Synchronizer) CreateAttribute(ctx context.Context, form payload.Form) error {
	categoryID := s.Selected()
	if categoryID == 0 {
		return ErrNoCategory
	}
	if err := s.backend.CreateAttribute(ctx, categoryID, payload.NormalizeCreateAttribute(form)); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchAttributes)
	return nil
}

// UpdateAttribute patches an attribute from form values.
func (s *Synchronizer) UpdateAttribute(ctx context.Context, id int64, form payload.Form) error {
	if err := s.backend.UpdateAttribute(ctx, id, payload.NormalizeUpdateAttribute(form)); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchAttributes)
	return nil
}

// RemoveAttribute deletes an attribute once confirm agrees.
func (s *Synchronizer) RemoveAttribute(ctx context.Context, id int64, confirm Confirmer) bool {
	if !confirm.Confirm(ctx, PromptDeleteAttribute) {
		return false
	}
	if err := s.backend.DeleteAttribute(ctx, id); err != nil {
		s.logger.Warn("deleting attribute", "id", id, "error", err)
		s.setNotice(MsgAttributeDelete)
		return false
	}
	_ = s.FetchAttributes(ctx)
	return true
}

// CreateOption adds an option to an attribute.
func (s *Synchronizer) CreateOption(ctx context.Context, attributeID int64, form payload.Form) error {
	if err := s.backend.CreateOption(ctx, attributeID, payload.NormalizeCreateOption(form)); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchAttributes)
	return nil
}

// UpdateOption patches an option and reports whether a request was sent.
// The owning attribute is looked up in the loaded attribute list; if no
// loaded attribute holds the option, nothing is sent and no error is
// returned.
func (s *Synchronizer) UpdateOption(ctx context.Context, optionID int64, form payload.Form) (bool, error) {
	attributeID, ok := model.FindOptionOwner(s.attributes.Snapshot().Items, optionID)
	if !ok {
		s.logger.Warn("option has no loaded owner, update skipped", "option_id", optionID)
		return false, nil
	}
	if err := s.backend.UpdateOption(ctx, attributeID, optionID, payload.NormalizeUpdateOption(form)); err != nil {
		return true, err
	}
	s.mutated(ctx, s.FetchAttributes)
	return true, nil
}

// RemoveOption deletes an option once confirm agrees.
func (s *Synchronizer) RemoveOption(ctx context.Context, attributeID, optionID int64, confirm Confirmer) bool {
	if !confirm.Confirm(ctx, PromptDeleteOption) {
		return false
	}
	if err := s.backend.DeleteOption(ctx, attributeID, optionID); err != nil {
		s.logger.Warn("deleting option", "attribute_id", attributeID, "option_id", optionID, "error", err)
		s.setNotice(MsgOptionDelete)
		return false
	}
	_ = s.FetchAttributes(ctx)
	return true
}

// mutated closes the edit form and reloads. A failed reload is reported
// through Notice, not to the form, since the mutation itself succeeded.
func (s *Synchronizer) mutated(ctx context.Context, refetch func(context.Context) error) {
	s.CloseSurface()
	_ = refetch(ctx)
}
