// Package mockapi is an in-process catalog backend. It serves the admin
// REST API over SQLite so the front-end can run and be tested without the
// real service.
package mockapi

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/katalog/internal/model"
)

// Config holds the backend's secrets.
type Config struct {
	JWTSecret string
	// BootstrapSecret enables POST /admin/bootstrap when non-empty.
	BootstrapSecret string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, BootstrapSecret: cfg.BootstrapSecret}
	categoriesHandler := &CategoriesHandler{DB: db}
	attributesHandler := &AttributesHandler{DB: db}
	optionsHandler := &OptionsHandler{DB: db}

	authMW := AuthMiddleware(cfg.JWTSecret)
	requireAdmin := RequireRole(model.RoleAdmin)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(requireAdmin(h))
	}

	// Public.
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /admin/bootstrap", authHandler.Bootstrap)

	// Categories.
	mux.Handle("GET /admin/categories", admin(categoriesHandler.List))
	mux.Handle("POST /admin/categories", admin(categoriesHandler.Create))
	mux.Handle("GET /admin/categories/{id}", admin(categoriesHandler.Get))
	mux.Handle("PATCH /admin/categories/{id}", admin(categoriesHandler.Update))
	mux.Handle("DELETE /admin/categories/{id}", admin(categoriesHandler.Delete))

	// Attributes.
	mux.Handle("GET /admin/categories/{categoryId}/attributes", admin(attributesHandler.List))
	mux.Handle("POST /admin/categories/{categoryId}/attributes", admin(attributesHandler.Create))
	mux.Handle("PATCH /admin/attributes/{id}", admin(attributesHandler.Update))
	mux.Handle("DELETE /admin/attributes/{id}", admin(attributesHandler.Delete))

	// Options.
	mux.Handle("POST /admin/attributes/{attributeId}/options", admin(optionsHandler.Create))
	mux.Handle("PATCH /admin/attributes/{attributeId}/options/{optionId}", admin(optionsHandler.Update))
	mux.Handle("DELETE /admin/attributes/{attributeId}/options/{optionId}", admin(optionsHandler.Delete))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})

	return mux
}
