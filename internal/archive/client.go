package archive

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

	"golang.org/x/time/rate"
)

// Doer is the transport the archive clients send requests through.
// *http.Client satisfies it; tests may substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Doer = (*http.Client)(nil)

const (
	defaultBaseAddr  = "127.0.0.1:4000"
	defaultUserAgent = "snapback/0.1"
	maxResponseBytes = 16 << 20

	loginPath    = "/api/login"
	metadataPath = "/api/backups/metadata"
	mediaPath    = "/api/backups"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the archive address, either host:port or a full URL.
	// Empty uses 127.0.0.1:4000.
	BaseURL string
	// HTTP is the transport. Nil builds an *http.Client with Timeout.
	HTTP Doer
	// Timeout applies only when HTTP is nil. Zero keeps the transport default.
	Timeout time.Duration
	// MinInterval spaces consecutive requests. Zero means no pacing.
	MinInterval time.Duration
	UserAgent   string
	Logger      *slog.Logger
}

// Client is the unauthenticated transport shared by Session, Catalog and
// Media. It is safe for concurrent use.
type Client struct {
	base      string
	http      Doer
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

// NewClient validates the base address and builds a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	doer := cfg.HTTP
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		base:      base,
		http:      doer,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// BaseURL returns the normalized base address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// request describes one archive call. auth is the full Authorization header
// value, empty for unauthenticated calls.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	auth   string
	body   any
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	raw := c.base + path
	if len(query) > 0 {
		raw += "?" + query.Encode()
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", &URLError{URL: raw, Err: err}
	}
	return raw, nil
}

// do performs the request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	target, err := c.endpoint(r.path, r.query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if r.body != nil {
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, &URLError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth != "" {
		req.Header.Set("Authorization", r.auth)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Op: r.op, Err: err}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "archive request failed", "op", r.op, "method", r.method, "path", r.path, "error", err)
		return nil, &NetworkError{Op: r.op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "archive request",
		"op", r.op,
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &NetworkError{Op: r.op, StatusCode: resp.StatusCode}
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Op: r.op, Err: fmt.Errorf("read body: %w", err)}
	}
	return payload, nil
}

func parseBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseAddr
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", &URLError{URL: raw, Err: err}
	}
	if u.Host == "" {
		return "", &URLError{URL: raw, Err: fmt.Errorf("missing host")}
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}
