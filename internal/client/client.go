// Package client talks to the catalog backend's REST API. It attaches the
// stored bearer token to every authenticated call and drops the token when
// the backend answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/katalog/internal/credential"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "http://localhost:3000"

// Config for the backend client.
type Config struct {
	BaseURL string        // default DefaultBaseURL
	Timeout time.Duration // 0 leaves requests without a deadline
}

// Client is a backend client bound to one credential store.
type Client struct {
	baseURL string
	http    *http.Client
	creds   credential.Store
	logger  *slog.Logger

	mu             sync.Mutex
	onUnauthorized func()
}

// New returns a client for the backend at cfg.BaseURL that authenticates
// with the token held in creds.
func New(cfg Config, creds credential.Store, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		creds:   creds,
		logger:  logger,
	}
}

// OnUnauthorized registers fn to run after a 401 has cleared the
// credential. The UI uses it to send the user back to the login page.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Credentials returns the store the client authenticates with.
func (c *Client) Credentials() credential.Store {
	return c.creds
}

// request describes one backend call.
type request struct {
	method  string
	path    string
	body    any
	headers map[string]string
	public  bool // no bearer token, 401 is an ordinary rejection
}

// do sends req and returns the raw response body of a 2xx response.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	reqID := uuid.New().String()
	url := c.baseURL + req.path
	start := time.Now()

	var payload []byte
	var reader io.Reader
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", reqID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.public {
		token, err := c.creds.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading credential: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("backend request failed",
			"req_id", reqID,
			"method", req.method,
			"url", url,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"payload", string(payload),
		)
		return nil, &TransportError{Method: req.method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.method, URL: url, Err: err}
	}

	if resp.StatusCode/100 == 2 {
		c.logger.Debug("backend request",
			"req_id", reqID,
			"method", req.method,
			"url", url,
			"status", resp.StatusCode,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return raw, nil
	}

	c.logger.Error("backend request failed",
		"req_id", reqID,
		"method", req.method,
		"url", url,
		"status", resp.StatusCode,
		"data", string(raw),
		"payload", string(payload),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode == http.StatusUnauthorized && !req.public {
		c.unauthorized(ctx)
		return nil, ErrUnauthorized
	}
	return nil, parseAPIError(resp.StatusCode, raw)
}

// unauthorized drops the credential and notifies the registered hook.
func (c *Client) unauthorized(ctx context.Context) {
	if err := c.creds.Remove(ctx); err != nil {
		c.logger.Error("removing credential", "error", err)
	}
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// doJSON sends req and decodes a 2xx response into out, if out is non-nil.
func (c *Client) doJSON(ctx context.Context, req request, out any) error {
	raw, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.method, req.path, err)
	}
	return nil
}
