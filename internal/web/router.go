package web

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/katalog/internal/client"
	webembed "github.com/erazemk/katalog/web"
)

// DefaultSessionTTL is used when Config.SessionTTL is zero.
const DefaultSessionTTL = 24 * time.Hour

// Config for the admin UI.
type Config struct {
	DB           *sql.DB // sessions
	Backend      client.Config
	SessionTTL   time.Duration
	CookieSecure bool
	Logger       *slog.Logger
}

// NewServer loads the templates and returns the page server.
func NewServer(cfg Config) (*Server, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}

	return &Server{
		DB:           cfg.DB,
		Templates:    templates,
		Backend:      cfg.Backend,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		Logger:       cfg.Logger,
		workspaces:   &workspaces{m: make(map[string]*workspace)},
	}, nil
}

// Handler returns the page router with all page routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	session := s.SessionMiddleware

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /bootstrap", s.BootstrapSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Session routes.
	mux.Handle("GET /{$}", session(http.HandlerFunc(s.Dashboard)))

	mux.Handle("GET /categories", session(http.HandlerFunc(s.CategoriesPage)))
	mux.Handle("POST /categories", session(http.HandlerFunc(s.CategoryCreateSubmit)))
	mux.Handle("POST /categories/{id}", session(http.HandlerFunc(s.CategoryUpdateSubmit)))
	mux.Handle("GET /categories/{id}/delete", session(http.HandlerFunc(s.CategoryDeletePage)))
	mux.Handle("POST /categories/{id}/delete", session(http.HandlerFunc(s.CategoryDeleteSubmit)))

	mux.Handle("GET /attributes", session(http.HandlerFunc(s.AttributesPage)))
	mux.Handle("POST /attributes", session(http.HandlerFunc(s.AttributeCreateSubmit)))
	mux.Handle("POST /attributes/{id}", session(http.HandlerFunc(s.AttributeUpdateSubmit)))
	mux.Handle("GET /attributes/{id}/delete", session(http.HandlerFunc(s.AttributeDeletePage)))
	mux.Handle("POST /attributes/{id}/delete", session(http.HandlerFunc(s.AttributeDeleteSubmit)))

	mux.Handle("POST /attributes/{id}/options", session(http.HandlerFunc(s.OptionCreateSubmit)))
	mux.Handle("POST /options/{id}", session(http.HandlerFunc(s.OptionUpdateSubmit)))
	mux.Handle("GET /attributes/{id}/options/{optionId}/delete", session(http.HandlerFunc(s.OptionDeletePage)))
	mux.Handle("POST /attributes/{id}/options/{optionId}/delete", session(http.HandlerFunc(s.OptionDeleteSubmit)))

	return mux
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(cfg Config) (http.Handler, error) {
	s, err := NewServer(cfg)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}
