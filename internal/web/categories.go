package web

import (
	"fmt"
	"net/http"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
)

type categoriesPage struct {
	PageData
	Categories []model.Category
	Loading    bool
	FormOpen   bool
	FormTitle  string
	FormAction string
	FormError  string
	Form       map[string]string
}

// CategoriesPage handles GET /categories. The query parameters
// form=new-category and form=edit-category&id=N open the edit form.
func (s *Server) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())

	_ = ws.sync.FetchCategories(r.Context())
	if s.sessionLost(w, r, ws) {
		return
	}
	ws.sync.OpenSurface(surfaceFromQuery(r, catalog.NewCategory, catalog.EditCategory))
	s.renderCategories(w, r, ws, nil, "")
}

// CategoryCreateSubmit handles POST /categories.
func (s *Server) CategoryCreateSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	form := submittedForm(r, categoryFields, nil)

	ws.sync.OpenSurface(catalog.Surface{Kind: catalog.NewCategory})
	if err := ws.sync.CreateCategory(r.Context(), form); err != nil {
		if s.sessionLost(w, r, ws) {
			return
		}
		s.logger().Warn("category creation failed", "error", err)
		s.renderCategories(w, r, ws, echo(form), mutationError(err))
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	s.logger().Info("category created", "name", form["name"])
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// CategoryUpdateSubmit handles POST /categories/{id}.
func (s *Server) CategoryUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	form := submittedForm(r, categoryFields, nil)

	ws.sync.OpenSurface(catalog.Surface{Kind: catalog.EditCategory, ID: id})
	if err := ws.sync.UpdateCategory(r.Context(), id, form); err != nil {
		if s.sessionLost(w, r, ws) {
			return
		}
		s.logger().Warn("category update failed", "id", id, "error", err)
		s.renderCategories(w, r, ws, echo(form), mutationError(err))
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	s.logger().Info("category updated", "id", id)
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// CategoryDeletePage handles GET /categories/{id}/delete.
func (s *Server) CategoryDeletePage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	subject := fmt.Sprintf("#%d", id)
	if c := findCategory(s.loadedCategories(r, ws), id); c != nil {
		subject = c.Name
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	s.Templates.Render(w, "confirm.html", &confirmPage{
		PageData: PageData{Title: "Izbris kategorije", User: GetWebClaims(r.Context())},
		Prompt:   catalog.PromptDeleteCategory,
		Subject:  subject,
		Action:   fmt.Sprintf("/categories/%d/delete", id),
		Cancel:   "/categories",
	})
}

// CategoryDeleteSubmit handles POST /categories/{id}/delete.
func (s *Server) CategoryDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	deleted := ws.sync.RemoveCategory(r.Context(), id, formConfirmer(r))
	if s.sessionLost(w, r, ws) {
		return
	}
	if !deleted && ws.sync.Notice() != "" {
		ws.sync.CloseSurface()
		s.renderCategories(w, r, ws, nil, "")
		return
	}

	if deleted {
		s.logger().Info("category deleted", "id", id)
	}
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// loadedCategories returns the held categories, fetching them first if they
// were never loaded.
func (s *Server) loadedCategories(r *http.Request, ws *workspace) []model.Category {
	if ws.sync.Categories().State == catalog.Unloaded {
		_ = ws.sync.FetchCategories(r.Context())
	}
	return ws.sync.Categories().Items
}

func (s *Server) renderCategories(w http.ResponseWriter, r *http.Request, ws *workspace, form map[string]string, formErr string) {
	// Loading the list below resets the notice of a failed delete.
	notice := ws.sync.Notice()
	categories := s.loadedCategories(r, ws)
	if notice == "" {
		notice = ws.sync.Notice()
	}
	page := &categoriesPage{
		PageData: PageData{
			Title:  "Kategorije",
			User:   GetWebClaims(r.Context()),
			Notice: notice,
		},
		Categories: categories,
		Loading:    ws.sync.Categories().State == catalog.Loading,
		FormError:  formErr,
	}

	surface := ws.sync.Surface()
	switch surface.Kind {
	case catalog.NewCategory:
		page.FormOpen = true
		page.FormTitle = "Nova kategorija"
		page.FormAction = "/categories"
	case catalog.EditCategory:
		c := findCategory(categories, surface.ID)
		if c == nil {
			ws.sync.CloseSurface()
			break
		}
		page.FormOpen = true
		page.FormTitle = "Uredi kategorijo"
		page.FormAction = fmt.Sprintf("/categories/%d", c.ID)
		if form == nil {
			form = map[string]string{"name": c.Name, "description": c.DescriptionText()}
		}
	}
	if form == nil {
		form = map[string]string{}
	}
	page.Form = form

	s.Templates.Render(w, "categories.html", page)
}

func findCategory(categories []model.Category, id int64) *model.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

type confirmPage struct {
	PageData
	Prompt   string
	Subject  string
	Action   string
	Cancel   string
	Category int64
}
