package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/model"
	webembed "github.com/erazemk/katalog/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"typeName": func(t string) string {
			switch t {
			case model.TypeText:
				return "Besedilo"
			case model.TypeNumber:
				return "Število"
			case model.TypeSelect:
				return "Izbira"
			case model.TypeMultiselect:
				return "Večkratna izbira"
			case model.TypeBoolean:
				return "Da/ne"
			default:
				return t
			}
		},
		"yesNo": func(b bool) string {
			if b {
				return "Da"
			}
			return "Ne"
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"attributeTypes": func() []string { return model.AttributeTypes },
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"dashboard.html",
		"categories.html",
		"attributes.html",
		"confirm.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Claims
	Error   string
	Notice  string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB           *sql.DB
	Templates    *Templates
	Backend      client.Config
	SessionTTL   time.Duration
	CookieSecure bool
	Logger       *slog.Logger

	workspaces *workspaces
}
