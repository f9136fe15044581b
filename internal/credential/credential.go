// Package credential holds the bearer token the admin front-end presents to
// the catalog backend.
package credential

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/store"
)

// Store keeps at most one access token. Get returns an empty string when no
// token is held.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// Memory is a Store that lives as long as the process.
type Memory struct {
	mu    sync.Mutex
	token string
}

func (m *Memory) Get(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

// Session is a Store backed by a row of the sessions table, so a browser
// session keeps its token across restarts.
type Session struct {
	db  *sql.DB
	id  string
	ttl time.Duration
	now func() time.Time
}

// NewSession returns the store of the session id. Tokens are kept for ttl,
// or until the token's own expiry if that comes first.
func NewSession(db *sql.DB, id string, ttl time.Duration) *Session {
	return &Session{db: db, id: id, ttl: ttl, now: time.Now}
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

func (s *Session) Get(ctx context.Context) (string, error) {
	return store.GetSessionToken(ctx, s.db, s.id, s.now())
}

func (s *Session) Set(ctx context.Context, token string) error {
	return store.SetSessionToken(ctx, s.db, s.id, token, s.expiry(token))
}

func (s *Session) Remove(ctx context.Context) error {
	return store.DeleteSession(ctx, s.db, s.id)
}

func (s *Session) expiry(token string) time.Time {
	expires := s.now().Add(s.ttl)
	claims, err := auth.Inspect(token)
	if err != nil {
		return expires
	}
	if exp, ok := claims.Expiry(); ok && exp.Before(expires) {
		return exp
	}
	return expires
}
