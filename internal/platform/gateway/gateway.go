// Package gateway is the single door to the remote reading service. Every call picks up the
// stored bearer credential, and every rejection of that credential is broadcast to the
// observers registered at construction before the caller sees the failure.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/id"
	"smartlib/internal/platform/logger"
)

// CredentialSource yields the current bearer token, ok=false when there is none.
type CredentialSource interface {
	Get(ctx context.Context) (string, bool, error)
}

// InvalidationObserver is told when the server rejects the attached credential.
type InvalidationObserver interface {
	OnInvalidated()
}

// ObserverFunc adapts a plain function to InvalidationObserver.
type ObserverFunc func()

func (f ObserverFunc) OnInvalidated() { f() }

// Result describes a successful response.
type Result struct {
	StatusCode int
	// NoContent is set when the body was empty, e.g. a DELETE answered with 204.
	NoContent bool
}

type Client struct {
	baseURL   string
	creds     CredentialSource
	http      *http.Client
	limiter   *rate.Limiter
	ids       id.Generator
	logger    *slog.Logger
	observers []InvalidationObserver
	cache     bool
	// cached serves catalog GETs; personal resources always go to the server
	cached *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithObserver(o InvalidationObserver) Option {
	return func(c *Client) { c.observers = append(c.observers, o) }
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithIDs(g id.Generator) Option {
	return func(c *Client) { c.ids = g }
}

// WithCache keeps cacheable catalog GET responses in memory. Personal resources under /my and
// /users/me are never cached.
func WithCache() Option {
	return func(c *Client) { c.cache = true }
}

func New(baseURL string, creds CredentialSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
		ids:     id.UUID{},
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache {
		transport := httpcache.NewMemoryCacheTransport()
		if c.http.Transport != nil {
			transport.Transport = c.http.Transport
		}
		hc := *c.http
		hc.Transport = transport
		c.cached = &hc
	}
	return c, nil
}

type noCredential struct{}

func (noCredential) Get(context.Context) (string, bool, error) { return "", false, nil }

// Anonymous returns a client sharing transport, limiter and observers that never attaches
// the credential. Login and registration go through it.
func (c *Client) Anonymous() *Client {
	cp := *c
	cp.creds = noCredential{}
	return &cp
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, http.MethodGet, path, nil, out)
	return err
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPost, path, body, out)
	return err
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPut, path, body, out)
	return err
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPatch, path, body, out)
	return err
}

func (c *Client) Delete(ctx context.Context, path string, out any) (Result, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one request. It never retries.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, apperrors.Transport(err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Result{}, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := c.ids.New()
	req.Header.Set("X-Request-ID", requestID)

	token, hasToken, err := c.creds.Get(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read credential: %w", err)
	}
	if hasToken {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	started := time.Now()
	resp, err := c.client(method, path).Do(req)
	if err != nil {
		c.logger.Debug("gateway request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return Result{}, apperrors.Transport(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, apperrors.Transport(fmt.Errorf("read response: %w", err))
	}
	c.logger.Debug("gateway request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
		"request_id", requestID,
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if hasToken && IsAuthFailure(resp.StatusCode, path) {
			c.broadcast()
			return Result{StatusCode: resp.StatusCode}, apperrors.Auth(resp.StatusCode)
		}
		return Result{StatusCode: resp.StatusCode}, apperrors.Request(resp.StatusCode, ErrorMessage(raw, resp.StatusCode))
	}

	result := Result{StatusCode: resp.StatusCode, NoContent: len(bytes.TrimSpace(raw)) == 0}
	if out != nil && !result.NoContent {
		if err := json.Unmarshal(raw, out); err != nil {
			return result, apperrors.Request(resp.StatusCode, fmt.Sprintf("decode %s %s response: %v", method, path, err))
		}
	}
	return result, nil
}

func (c *Client) client(method, path string) *http.Client {
	if c.cached != nil && method == http.MethodGet && !isPersonalPath(path) {
		return c.cached
	}
	return c.http
}

func (c *Client) broadcast() {
	c.logger.Warn("credential rejected by server, broadcasting invalidation", "observers", len(c.observers))
	for _, o := range c.observers {
		o.OnInvalidated()
	}
}
