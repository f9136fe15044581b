package web

import (
	"context"
	"net/http"
	"time"

	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/credential"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"
const webWorkspaceKey webContextKey = "webworkspace"

// SessionMiddleware requires a session holding a backend token. Requests
// without one, or whose token has expired, are redirected to /login.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)
		if id == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		token, err := credential.NewSession(s.DB, id, s.SessionTTL).Get(r.Context())
		if err != nil {
			s.logger().Error("failed to read session", "error", err)
			s.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if token == "" {
			s.forget(id)
			s.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		// Tokens that cannot be decoded are passed on; the backend decides.
		claims, _ := auth.Inspect(token)
		if claims != nil && claims.Expired(time.Now()) {
			s.endSession(w, r, id)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), webClaimsKey, claims)
		ctx = context.WithValue(ctx, webWorkspaceKey, s.open(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetWebClaims retrieves the token claims from web context. It returns nil
// when the token could not be decoded.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

func getWorkspace(ctx context.Context) *workspace {
	ws, _ := ctx.Value(webWorkspaceKey).(*workspace)
	return ws
}
