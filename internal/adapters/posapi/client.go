// Package posapi is the HTTP adapter for the POS REST API.
package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	domainauth "github.com/target/pos-console/internal/domain/auth"
	apperrors "github.com/target/pos-console/internal/errors"
	obserrors "github.com/target/pos-console/internal/observability/errors"
	"github.com/target/pos-console/internal/observability/statsd"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "posctl"
	maxErrorBody     = 64 << 10
	requestIDHeader  = "X-Request-ID"
)

// UnauthorizedHandler is called when an authenticated call comes back 401.
type UnauthorizedHandler func(ctx context.Context, err error)

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the underlying client; its Transport is reused for
	// resource calls.
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Metrics receives per-request timings; nil discards them.
	Metrics statsd.Sink
}

// Client talks to the authentication and impersonation endpoints and is the
// base for ResourceClient.
type Client struct {
	baseURL        *url.URL
	hc             *http.Client
	userAgent      string
	logger         *slog.Logger
	metrics        statsd.Sink
	validate       *validator.Validate
	onUnauthorized atomic.Pointer[UnauthorizedHandler]
	now            func() time.Time
}

// NewClient builds an API client. The base URL must be absolute.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("create cookie jar: %w", jarErr)
		}
		hc = &http.Client{Timeout: timeout, Jar: jar}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = statsd.Discard
	}

	return &Client{
		baseURL:   base,
		hc:        hc,
		userAgent: fallbackString(strings.TrimSpace(cfg.UserAgent), defaultUserAgent),
		logger:    logger.With("component", "posapi"),
		metrics:   metrics,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}, nil
}

// SetUnauthorizedHandler installs the hook run on 401 responses to
// authenticated calls. Login responses never reach it.
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	if h == nil {
		c.onUnauthorized.Store(nil)
		return
	}
	c.onUnauthorized.Store(&h)
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// creds authenticates the call explicitly; nil leaves authentication to
	// the transport.
	creds *domainauth.CredentialPair
	// anonymous marks calls whose 401 means "bad input", not "session expired".
	anonymous bool
	// fallback supplies a message when the server sends none.
	fallback func(status int) string
	// route names the endpoint in metrics when path carries free-form input.
	route string
}

func (r request) metricRoute() string {
	if r.route != "" {
		return r.route
	}
	return routeOf(r.path)
}

func (c *Client) do(ctx context.Context, hc *http.Client, r request) ([]byte, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get(requestIDHeader)
	start := time.Now()

	resp, err := hc.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			"method", r.method, "path", r.path, "request_id", requestID, "error", err)
		mapped := apperrors.MapTransportError(err)
		c.metrics.Count("api.transport_error", 1, statsd.Tags{
			"method": r.method,
			"route":  r.metricRoute(),
			"class":  obserrors.Classify(mapped),
		})
		return nil, mapped
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.DebugContext(ctx, "close response body", "error", closeErr)
		}
	}()

	c.logger.DebugContext(ctx, "api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)
	c.metrics.Timing("api.request", time.Since(start), statsd.Tags{
		"method": r.method,
		"route":  r.metricRoute(),
		"status": strconv.Itoa(resp.StatusCode),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.errorFromResponse(resp, r.fallback)
		if resp.StatusCode == http.StatusUnauthorized && !r.anonymous {
			if h := c.onUnauthorized.Load(); h != nil {
				(*h)(ctx, apiErr)
			}
		}
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.MapTransportError(fmt.Errorf("read %s %s: %w", r.method, r.path, err))
	}
	return body, nil
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, r request, out any) error {
	body, err := c.do(ctx, hc, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "decode %s response", r.path)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + r.path
	u.RawPath = ""
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.creds != nil {
		req.Header.Set("Authorization", r.creds.Type()+" "+r.creds.AccessToken)
	}
	return req, nil
}

func (c *Client) errorFromResponse(resp *http.Response, fallback func(int) string) error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		c.logger.Debug("read error response", "status", resp.StatusCode, "error", readErr)
	}

	msg := errorMessage(body)
	if msg == "" && fallback != nil {
		msg = fallback(resp.StatusCode)
	}
	if msg == "" {
		msg = genericMessage(resp.StatusCode)
	}
	return apperrors.FromStatus(resp.StatusCode, msg)
}

func genericMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("API error (status %d)", status)
}

// routeOf collapses numeric path segments so metric tags stay bounded.
func routeOf(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func credsPtr(c domainauth.CredentialPair) *domainauth.CredentialPair { return &c }
