package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/erazemk/katalog/internal/model"
)

// BootstrapSecretHeader carries the one-time secret of POST /admin/bootstrap.
const BootstrapSecretHeader = "x-admin-bootstrap-secret"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BootstrapRequest is the body of POST /admin/bootstrap.
type BootstrapRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for an access token and stores it.
func (c *Client) Login(ctx context.Context, body LoginRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   body,
		public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err := c.creds.Set(ctx, resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Bootstrap creates the first administrator. The secret is sent trimmed and
// is not kept. The returned token is stored like a login.
func (c *Client) Bootstrap(ctx context.Context, secret string, body BootstrapRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.doJSON(ctx, request{
		method:  http.MethodPost,
		path:    "/admin/bootstrap",
		body:    body,
		headers: map[string]string{BootstrapSecretHeader: strings.TrimSpace(secret)},
		public:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err := c.creds.Set(ctx, resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout forgets the stored token. The backend keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	return c.creds.Remove(ctx)
}
