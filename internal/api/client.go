// Package api is a thin client for the masomo REST endpoints roster uses:
// /auth/login, /users and /users/:id.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/masomo/roster/internal/util"
	"github.com/sendgrid/rest"
	"go.uber.org/zap"
)

// Client talks to one masomo API deployment. The zero value is not usable;
// use New.
type Client struct {
	baseURL string
	token   string
	rest    *rest.Client
	log     *zap.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *zap.Logger
	HTTP    *http.Client // overrides Timeout when set
}

// New creates a client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, util.ErrNoAPIURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", base, err)
	}

	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: base,
		token:   opts.Token,
		rest:    &rest.Client{HTTPClient: httpClient},
		log:     log,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken replaces the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// ═══════════════════════════════════════════════════════════════════════════
// Endpoints
// ═══════════════════════════════════════════════════════════════════════════

// Login exchanges credentials for an access token. The token is kept on the
// client for later calls.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, rest.Post, "/auth/login", creds, &res, false); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}
	c.token = res.AccessToken
	return &res, nil
}

// Register creates a user.
func (c *Client) Register(ctx context.Context, nu NewUser) (*User, error) {
	var u User
	if err := c.do(ctx, rest.Post, "/users", nu, &u, false); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me returns the logged in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, rest.Get, "/users/me", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every user visible to the logged in account.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, rest.Get, "/users", nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser modifies the user with id and returns the stored result.
func (c *Client) UpdateUser(ctx context.Context, id UserID, uu UpdateUser) (*User, error) {
	var u User
	if err := c.do(ctx, rest.Put, "/users/"+url.PathEscape(id.String()), uu, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes the user with id.
func (c *Client) DeleteUser(ctx context.Context, id UserID) error {
	return c.do(ctx, rest.Delete, "/users/"+url.PathEscape(id.String()), nil, nil, true)
}

// ═══════════════════════════════════════════════════════════════════════════
// Transport
// ═══════════════════════════════════════════════════════════════════════════

func (c *Client) do(ctx context.Context, method rest.Method, path string, in, out any, authed bool) error {
	if authed && c.token == "" {
		return util.ErrNotLoggedIn
	}

	reqID := util.NewRequestID()
	sent, err := util.RequestTime(reqID)
	if err != nil {
		return fmt.Errorf("request id %q: %w", reqID, err)
	}
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{
			"Accept":       "application/json",
			"X-Request-ID": reqID,
		},
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	start := time.Now()
	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", string(method)),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Time("sent", sent),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.log.Debug("request",
		zap.String("method", string(method)),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Time("sent", sent),
		zap.Int("status", res.StatusCode),
		zap.Duration("took", time.Since(start)))

	if res.StatusCode >= 400 {
		return decodeError(res.StatusCode, res.Body)
	}
	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Body), out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}
