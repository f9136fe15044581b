package mockapi

import (
	"crypto/subtle"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
	"github.com/erazemk/katalog/internal/validate"
)

// BootstrapSecretHeader carries the secret of POST /admin/bootstrap.
const BootstrapSecretHeader = "x-admin-bootstrap-secret"

// AuthHandler handles login and first-admin bootstrap.
type AuthHandler struct {
	DB              *sql.DB
	JWTSecret       string
	BootstrapSecret string
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type bootstrapRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validate.Struct(req); msgs != nil {
		validationError(w, msgs)
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, strings.ToLower(req.Email))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
	slog.Info("user logged in", "email", user.Email, "role", user.Role)
}

// Bootstrap handles POST /admin/bootstrap. It creates the first admin when
// the secret header matches and no admin exists yet.
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	if h.BootstrapSecret == "" {
		jsonError(w, http.StatusForbidden, "Bootstrap is disabled")
		return
	}
	given := r.Header.Get(BootstrapSecretHeader)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.BootstrapSecret)) != 1 {
		slog.Warn("bootstrap rejected", "remote", r.RemoteAddr)
		jsonError(w, http.StatusForbidden, "Invalid bootstrap secret")
		return
	}

	var req bootstrapRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msgs := validate.Struct(req); msgs != nil {
		validationError(w, msgs)
		return
	}

	ctx := r.Context()
	admins, err := store.CountAdmins(ctx, h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if admins > 0 {
		jsonError(w, http.StatusConflict, "An admin already exists")
		return
	}
	existing, err := store.GetUserByEmail(ctx, h.DB, req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, "Email already in use")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	user, err := store.CreateUser(ctx, h.DB, req.Name, req.Email, string(hash), model.RoleAdmin)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("first admin created", "email", user.Email)
	h.respondWithToken(w, http.StatusCreated, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *model.User) {
	token, err := auth.GenerateToken(h.JWTSecret, user)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	jsonResponse(w, status, model.AuthResponse{AccessToken: token, User: *user})
}
