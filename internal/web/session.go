package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/credential"
	"github.com/erazemk/katalog/internal/store"
)

const sessionCookie = "katalog_session"

// workspace is one browser session: its backend client, bound to the
// session's stored token, and its view of the catalog.
type workspace struct {
	id     string
	client *client.Client
	sync   *catalog.Synchronizer

	expired  atomic.Bool
	lastSeen atomic.Int64
}

type workspaces struct {
	mu sync.Mutex
	m  map[string]*workspace
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// open returns the workspace of session id, creating it if needed.
func (s *Server) open(id string) *workspace {
	s.workspaces.mu.Lock()
	defer s.workspaces.mu.Unlock()

	ws, ok := s.workspaces.m[id]
	if !ok {
		logger := s.logger().With("session", shortID(id))
		creds := credential.NewSession(s.DB, id, s.SessionTTL)
		c := client.New(s.Backend, creds, logger)
		ws = &workspace{id: id, client: c, sync: catalog.New(c, logger)}
		c.OnUnauthorized(func() { ws.expired.Store(true) })
		s.workspaces.m[id] = ws
	}
	ws.lastSeen.Store(time.Now().Unix())
	return ws
}

// forget drops the workspace of session id.
func (s *Server) forget(id string) {
	s.workspaces.mu.Lock()
	delete(s.workspaces.m, id)
	s.workspaces.mu.Unlock()
}

// endSession removes the session's token and cookie.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, id string) {
	if id != "" {
		if err := store.DeleteSession(r.Context(), s.DB, id); err != nil {
			s.logger().Error("failed to delete session", "error", err)
		}
		s.forget(id)
	}
	s.clearSessionCookie(w)
}

// sessionLost reports whether the backend rejected the session's token. If
// it did, the session is ended and the user is sent to the login page.
func (s *Server) sessionLost(w http.ResponseWriter, r *http.Request, ws *workspace) bool {
	if !ws.expired.Load() {
		return false
	}
	s.logger().Info("backend rejected session token", "session", shortID(ws.id))
	s.endSession(w, r, ws.id)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// Sweep deletes expired sessions and forgets workspaces that have been idle
// for longer than the session TTL.
func (s *Server) Sweep(ctx context.Context) error {
	now := time.Now()
	n, err := store.PurgeExpiredSessions(ctx, s.DB, now)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger().Info("purged expired sessions", "count", n)
	}

	cutoff := now.Add(-s.SessionTTL).Unix()
	s.workspaces.mu.Lock()
	for id, ws := range s.workspaces.m {
		if ws.lastSeen.Load() < cutoff {
			delete(s.workspaces.m, id)
		}
	}
	s.workspaces.mu.Unlock()
	return nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger().Error("failed to sweep sessions", "error", err)
			}
		}
	}
}

func newSessionID() string {
	return uuid.NewString()
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.SessionTTL.Seconds()),
	})
}

// clearSessionCookie clears the session cookie with consistent attributes.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// shortID returns a prefix of a session ID that is safe to log.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
