package web

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/payload"
)

// msgSaveFailed is shown when the backend rejects a form without a message.
const msgSaveFailed = "Napaka pri shranjevanju"

// Field names of the edit forms.
var (
	categoryFields  = []string{"name", "description"}
	attributeFields = []string{"name", "type", "displayOrder", "description", "unit", "group", "minValue", "maxValue"}
	attributeFlags  = []string{"isRequired", "isFilterable", "isSearchable"}
	optionFields    = []string{"label", "value", "displayOrder"}
)

// Values of the ?form= query parameter.
var surfaceNames = map[string]catalog.SurfaceKind{
	"new-category":   catalog.NewCategory,
	"edit-category":  catalog.EditCategory,
	"new-attribute":  catalog.NewAttribute,
	"edit-attribute": catalog.EditAttribute,
	"new-option":     catalog.NewOption,
	"edit-option":    catalog.EditOption,
}

// surfaceFromQuery reads the requested edit form. Kinds not in allowed are
// ignored.
func surfaceFromQuery(r *http.Request, allowed ...catalog.SurfaceKind) catalog.Surface {
	kind, ok := surfaceNames[r.URL.Query().Get("form")]
	if !ok || !slices.Contains(allowed, kind) {
		return catalog.Surface{}
	}
	id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	return catalog.Surface{Kind: kind, ID: id}
}

// submittedForm collects the posted text fields and checkboxes. Fields the
// form did not post are left out. A checkbox is declared by a hidden input
// of the same name, so an unchecked box still arrives as false.
func submittedForm(r *http.Request, fields, flags []string) payload.Form {
	if err := r.ParseForm(); err != nil {
		return payload.Form{}
	}
	f := payload.Form{}
	for _, name := range fields {
		if vals, ok := r.PostForm[name]; ok && len(vals) > 0 {
			f[name] = vals[0]
		}
	}
	for _, name := range flags {
		if vals, ok := r.PostForm[name]; ok {
			f[name] = slices.Contains(vals, "on")
		}
	}
	return f
}

// echo renders a submitted form back into field values for re-display.
func echo(f payload.Form) map[string]string {
	out := make(map[string]string, len(f))
	for k, v := range f {
		switch v := v.(type) {
		case string:
			out[k] = v
		case bool:
			if v {
				out[k] = "on"
			}
		}
	}
	return out
}

// formConfirmer agrees when the confirmation page was submitted with
// confirm=yes.
func formConfirmer(r *http.Request) catalog.Confirmer {
	return catalog.ConfirmFunc(func(context.Context, string) bool {
		return r.PostFormValue("confirm") == "yes"
	})
}

// mutationError is the message a failed create or update shows in its form.
func mutationError(err error) string {
	var transport *client.TransportError
	var schemaErr *payload.SchemaError
	switch {
	case errors.Is(err, catalog.ErrNoCategory):
		return "Najprej izberite kategorijo."
	case errors.As(err, &transport):
		return "Zaledja ni mogoče doseči."
	case errors.As(err, &schemaErr):
		return strings.Join(schemaErr.Messages, ", ")
	}
	return client.Message(err, msgSaveFailed)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}
