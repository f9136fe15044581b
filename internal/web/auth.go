package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/credential"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/validate"
)

type loginPage struct {
	PageData
	Email          string
	BootstrapName  string
	BootstrapEmail string
	BootstrapOpen  bool
}

// LoginPage handles GET /login. A session that still holds a token goes
// straight to the dashboard.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if s.signedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &loginPage{PageData: PageData{Title: "Prijava"}})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	req := client.LoginRequest{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	page := &loginPage{PageData: PageData{Title: "Prijava"}, Email: req.Email}

	if msgs := validate.Struct(req); len(msgs) > 0 {
		page.Error = "Vnesite e-poštni naslov in geslo."
		s.Templates.RenderStatus(w, http.StatusBadRequest, "login.html", page)
		return
	}

	id := newSessionID()
	ws := s.open(id)
	resp, err := ws.client.Login(r.Context(), req)
	if err != nil {
		s.forget(id)
		s.logger().Warn("login failed", "email", req.Email, "error", err)
		page.Error = authErrorMessage(err)
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", page)
		return
	}

	s.startSession(w, r, id, &resp.User)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// BootstrapSubmit handles POST /bootstrap. It creates the first
// administrator with the backend's one-time secret and signs them in.
func (s *Server) BootstrapSubmit(w http.ResponseWriter, r *http.Request) {
	secret := strings.TrimSpace(r.FormValue("secret"))
	req := client.BootstrapRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	page := &loginPage{
		PageData:       PageData{Title: "Prijava"},
		BootstrapName:  req.Name,
		BootstrapEmail: req.Email,
		BootstrapOpen:  true,
	}

	if secret == "" {
		page.Error = "Vnesite skrivnost za zagon."
		s.Templates.RenderStatus(w, http.StatusBadRequest, "login.html", page)
		return
	}
	if msgs := validate.Struct(req); len(msgs) > 0 {
		page.Error = "Izpolnite ime, e-poštni naslov in geslo."
		s.Templates.RenderStatus(w, http.StatusBadRequest, "login.html", page)
		return
	}

	id := newSessionID()
	ws := s.open(id)
	resp, err := ws.client.Bootstrap(r.Context(), secret, req)
	if err != nil {
		s.forget(id)
		s.logger().Warn("bootstrap failed", "email", req.Email, "error", err)
		page.Error = authErrorMessage(err)
		s.Templates.RenderStatus(w, http.StatusBadRequest, "login.html", page)
		return
	}

	s.logger().Info("first administrator created", "email", resp.User.Email)
	s.startSession(w, r, id, &resp.User)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r, sessionID(r))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// startSession replaces any previous session of the browser with id.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, id string, user *model.User) {
	if old := sessionID(r); old != "" && old != id {
		s.endSession(w, r, old)
	}
	s.setSessionCookie(w, id)
	s.logger().Info("user logged in", "email", user.Email, "session", shortID(id))
}

// signedIn reports whether the request's session holds an unexpired token.
func (s *Server) signedIn(r *http.Request) bool {
	id := sessionID(r)
	if id == "" {
		return false
	}
	token, err := credential.NewSession(s.DB, id, s.SessionTTL).Get(r.Context())
	if err != nil || token == "" {
		return false
	}
	claims, err := auth.Inspect(token)
	return err != nil || !claims.Expired(time.Now())
}

// authErrorMessage explains a failed login or bootstrap.
func authErrorMessage(err error) string {
	var transport *client.TransportError
	var apiErr *client.APIError
	switch {
	case errors.As(err, &transport):
		return "Zaledja ni mogoče doseči. Preverite, ali strežnik teče."
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return "Napačen e-poštni naslov ali geslo."
		case http.StatusForbidden:
			return "Napačna skrivnost za zagon."
		case http.StatusConflict:
			return "Administrator že obstaja."
		case http.StatusBadRequest:
			return client.Message(err, "Neveljavni podatki.")
		}
		return client.Message(err, fmt.Sprintf("Napaka %d.", apiErr.Status))
	}
	return "Nepričakovana napaka."
}
