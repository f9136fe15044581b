package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
)

type attributesPage struct {
	PageData
	Categories []model.Category
	Selected   int64
	Category   *model.Category
	Attributes []model.Attribute
	Loading    bool
	FormOpen   bool
	FormOption bool
	FormTitle  string
	FormAction string
	FormError  string
	Form       map[string]string
}

// AttributesPage handles GET /attributes. ?category=N selects a category;
// without it the previous selection is reloaded. The form parameter opens
// one of the attribute or option forms.
func (s *Server) AttributesPage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())

	_ = ws.sync.FetchCategories(r.Context())
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, _ := strconv.ParseInt(raw, 10, 64)
		_ = ws.sync.SelectCategory(r.Context(), id)
	} else {
		_ = ws.sync.FetchAttributes(r.Context())
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	ws.sync.OpenSurface(surfaceFromQuery(r,
		catalog.NewAttribute, catalog.EditAttribute, catalog.NewOption, catalog.EditOption))
	s.renderAttributes(w, r, ws, nil, "")
}

// AttributeCreateSubmit handles POST /attributes. The attribute is created
// in the category the form was shown for.
func (s *Server) AttributeCreateSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	form := submittedForm(r, attributeFields, attributeFlags)
	s.ensureCategory(r, ws)

	ws.sync.OpenSurface(catalog.Surface{Kind: catalog.NewAttribute})
	if err := ws.sync.CreateAttribute(r.Context(), form); err != nil {
		if s.sessionLost(w, r, ws) {
			return
		}
		s.logger().Warn("attribute creation failed", "category_id", ws.sync.Selected(), "error", err)
		s.renderAttributes(w, r, ws, attributeEcho(form), mutationError(err))
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	s.logger().Info("attribute created", "category_id", ws.sync.Selected(), "name", form["name"])
	http.Redirect(w, r, attributesURL(ws.sync.Selected()), http.StatusSeeOther)
}

// AttributeUpdateSubmit handles POST /attributes/{id}.
func (s *Server) AttributeUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	form := submittedForm(r, attributeFields, attributeFlags)
	s.ensureCategory(r, ws)

	ws.sync.OpenSurface(catalog.Surface{Kind: catalog.EditAttribute, ID: id})
	if err := ws.sync.UpdateAttribute(r.Context(), id, form); err != nil {
		if s.sessionLost(w, r, ws) {
			return
		}
		s.logger().Warn("attribute update failed", "id", id, "error", err)
		s.renderAttributes(w, r, ws, attributeEcho(form), mutationError(err))
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	s.logger().Info("attribute updated", "id", id)
	http.Redirect(w, r, attributesURL(ws.sync.Selected()), http.StatusSeeOther)
}

// AttributeDeletePage handles GET /attributes/{id}/delete.
func (s *Server) AttributeDeletePage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	subject := fmt.Sprintf("#%d", id)
	if a := findAttribute(ws.sync.Attributes().Items, id); a != nil {
		subject = a.DisplayName()
	}

	s.Templates.Render(w, "confirm.html", &confirmPage{
		PageData: PageData{Title: "Izbris atributa", User: GetWebClaims(r.Context())},
		Prompt:   catalog.PromptDeleteAttribute,
		Subject:  subject,
		Action:   fmt.Sprintf("/attributes/%d/delete", id),
		Cancel:   attributesURL(ws.sync.Selected()),
		Category: ws.sync.Selected(),
	})
}

// AttributeDeleteSubmit handles POST /attributes/{id}/delete.
func (s *Server) AttributeDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	s.ensureCategory(r, ws)

	deleted := ws.sync.RemoveAttribute(r.Context(), id, formConfirmer(r))
	if s.sessionLost(w, r, ws) {
		return
	}
	if !deleted && ws.sync.Notice() != "" {
		ws.sync.CloseSurface()
		s.renderAttributes(w, r, ws, nil, "")
		return
	}

	if deleted {
		s.logger().Info("attribute deleted", "id", id)
	}
	http.Redirect(w, r, attributesURL(ws.sync.Selected()), http.StatusSeeOther)
}

// OptionCreateSubmit handles POST /attributes/{id}/options.
func (s *Server) OptionCreateSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	attributeID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	form := submittedForm(r, optionFields, nil)
	s.ensureCategory(r, ws)

	ws.sync.OpenSurface(catalog.Surface{Kind: catalog.NewOption, ID: attributeID})
	if err := ws.sync.CreateOption(r.Context(), attributeID, form); err != nil {
		if s.sessionLost(w, r, ws) {
			return
		}
		s.logger().Warn("option creation failed", "attribute_id", attributeID, "error", err)
		s.renderAttributes(w, r, ws, echo(form), mutationError(err))
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	s.logger().Info("option created", "attribute_id", attributeID)
	http.Redirect(w, r, attributesURL(ws.sync.Selected()), http.StatusSeeOther)
}

// OptionUpdateSubmit handles POST /options/{id}. The owning attribute is
// looked up among the loaded attributes.
func (s *Server) OptionUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	optionID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	form := submittedForm(r, optionFields, nil)
	s.ensureCategory(r, ws)

	ws.sync.OpenSurface(catalog.Surface{Kind: catalog.EditOption, ID: optionID})
	sent, err := ws.sync.UpdateOption(r.Context(), optionID, form)
	if err != nil {
		if s.sessionLost(w, r, ws) {
			return
		}
		s.logger().Warn("option update failed", "id", optionID, "error", err)
		s.renderAttributes(w, r, ws, echo(form), mutationError(err))
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	if sent {
		s.logger().Info("option updated", "id", optionID)
	}
	http.Redirect(w, r, attributesURL(ws.sync.Selected()), http.StatusSeeOther)
}

// OptionDeletePage handles GET /attributes/{id}/options/{optionId}/delete.
func (s *Server) OptionDeletePage(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	attributeID, ok1 := pathID(r, "id")
	optionID, ok2 := pathID(r, "optionId")
	if !ok1 || !ok2 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	subject := fmt.Sprintf("#%d", optionID)
	if o := findOption(ws.sync.Attributes().Items, optionID); o != nil {
		subject = o.DisplayName()
	}

	s.Templates.Render(w, "confirm.html", &confirmPage{
		PageData: PageData{Title: "Izbris možnosti", User: GetWebClaims(r.Context())},
		Prompt:   catalog.PromptDeleteOption,
		Subject:  subject,
		Action:   fmt.Sprintf("/attributes/%d/options/%d/delete", attributeID, optionID),
		Cancel:   attributesURL(ws.sync.Selected()),
		Category: ws.sync.Selected(),
	})
}

// OptionDeleteSubmit handles POST /attributes/{id}/options/{optionId}/delete.
func (s *Server) OptionDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	attributeID, ok1 := pathID(r, "id")
	optionID, ok2 := pathID(r, "optionId")
	if !ok1 || !ok2 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	s.ensureCategory(r, ws)

	deleted := ws.sync.RemoveOption(r.Context(), attributeID, optionID, formConfirmer(r))
	if s.sessionLost(w, r, ws) {
		return
	}
	if !deleted && ws.sync.Notice() != "" {
		ws.sync.CloseSurface()
		s.renderAttributes(w, r, ws, nil, "")
		return
	}

	if deleted {
		s.logger().Info("option deleted", "attribute_id", attributeID, "option_id", optionID)
	}
	http.Redirect(w, r, attributesURL(ws.sync.Selected()), http.StatusSeeOther)
}

// ensureCategory selects the category named by the posted category field,
// so that a form submitted after a restart acts on the category it was
// shown for.
func (s *Server) ensureCategory(r *http.Request, ws *workspace) {
	id, err := strconv.ParseInt(r.PostFormValue("category"), 10, 64)
	if err != nil || id <= 0 {
		return
	}
	if id != ws.sync.Selected() || ws.sync.Attributes().State == catalog.Unloaded {
		_ = ws.sync.SelectCategory(r.Context(), id)
	}
}

func (s *Server) renderAttributes(w http.ResponseWriter, r *http.Request, ws *workspace, form map[string]string, formErr string) {
	notice := ws.sync.Notice()
	categories := s.loadedCategories(r, ws)
	attributes := ws.sync.Attributes()
	selected := ws.sync.Selected()

	if notice == "" {
		notice = ws.sync.Notice()
	}
	if notice == "" && ws.sync.Categories().State == catalog.Errored {
		notice = catalog.MsgCategoriesLoad
	}

	page := &attributesPage{
		PageData: PageData{
			Title:  "Atributi",
			User:   GetWebClaims(r.Context()),
			Notice: notice,
		},
		Categories: categories,
		Selected:   selected,
		Category:   findCategory(categories, selected),
		Attributes: attributes.Items,
		Loading:    attributes.State == catalog.Loading,
		FormError:  formErr,
	}

	surface := ws.sync.Surface()
	switch surface.Kind {
	case catalog.NewAttribute:
		if selected == 0 {
			ws.sync.CloseSurface()
			break
		}
		page.FormOpen = true
		page.FormTitle = "Nov atribut"
		page.FormAction = "/attributes"
		if form == nil {
			form = map[string]string{"type": model.TypeText, "displayOrder": "0"}
		}
	case catalog.EditAttribute:
		a := findAttribute(attributes.Items, surface.ID)
		if a == nil {
			ws.sync.CloseSurface()
			break
		}
		page.FormOpen = true
		page.FormTitle = "Uredi atribut »" + a.DisplayName() + "«"
		page.FormAction = fmt.Sprintf("/attributes/%d", a.ID)
		if form == nil {
			form = attributeValues(a)
		}
	case catalog.NewOption:
		a := findAttribute(attributes.Items, surface.ID)
		if a == nil || !a.HasOptions() {
			ws.sync.CloseSurface()
			break
		}
		page.FormOpen = true
		page.FormOption = true
		page.FormTitle = "Nova možnost za »" + a.DisplayName() + "«"
		page.FormAction = fmt.Sprintf("/attributes/%d/options", a.ID)
		if form == nil {
			form = map[string]string{"displayOrder": "0"}
		}
	case catalog.EditOption:
		o := findOption(attributes.Items, surface.ID)
		if o == nil {
			ws.sync.CloseSurface()
			break
		}
		page.FormOpen = true
		page.FormOption = true
		page.FormTitle = "Uredi možnost »" + o.DisplayName() + "«"
		page.FormAction = fmt.Sprintf("/options/%d", o.ID)
		if form == nil {
			form = map[string]string{
				"label":        o.Label,
				"value":        o.Value,
				"displayOrder": strconv.FormatFloat(o.DisplayOrder, 'f', -1, 64),
			}
		}
	}
	if form == nil {
		form = map[string]string{}
	}
	page.Form = form

	s.Templates.Render(w, "attributes.html", page)
}

// attributeValues fills the attribute form from a loaded attribute.
func attributeValues(a *model.Attribute) map[string]string {
	v := map[string]string{
		"name":         a.Name,
		"type":         a.Type,
		"displayOrder": strconv.FormatFloat(a.DisplayOrder, 'f', -1, 64),
	}
	set := func(key string, s *string) {
		if s != nil {
			v[key] = *s
		}
	}
	set("description", a.Description)
	set("unit", a.Unit)
	set("group", a.Group)
	if a.Type == model.TypeNumber {
		if a.MinValue != nil {
			v["minValue"] = strconv.FormatFloat(*a.MinValue, 'f', -1, 64)
		}
		if a.MaxValue != nil {
			v["maxValue"] = strconv.FormatFloat(*a.MaxValue, 'f', -1, 64)
		}
	}
	for key, on := range map[string]bool{
		"isRequired":   a.IsRequired,
		"isFilterable": a.IsFilterable,
		"isSearchable": a.IsSearchable,
	} {
		if on {
			v[key] = "on"
		}
	}
	return v
}

// attributeEcho re-displays a rejected attribute form. Bounds only belong
// to NUMBER attributes and are cleared for any other type.
func attributeEcho(f payload.Form) map[string]string {
	v := echo(f)
	if v["type"] != model.TypeNumber {
		delete(v, "minValue")
		delete(v, "maxValue")
	}
	return v
}

func findAttribute(attrs []model.Attribute, id int64) *model.Attribute {
	for i := range attrs {
		if attrs[i].ID == id {
			return &attrs[i]
		}
	}
	return nil
}

func findOption(attrs []model.Attribute, optionID int64) *model.Option {
	ownerID, ok := model.FindOptionOwner(attrs, optionID)
	if !ok {
		return nil
	}
	for _, o := range findAttribute(attrs, ownerID).Options {
		if o.ID == optionID {
			return &o
		}
	}
	return nil
}

func attributesURL(categoryID int64) string {
	if categoryID == 0 {
		return "/attributes"
	}
	return fmt.Sprintf("/attributes?category=%d", categoryID)
}
