// Package backend is the REST client for the CMS backend that owns all
// content. It is presentation-side plumbing only: typed pass-through of the
// backend's resource shapes, read-through caching with resource-scoped
// invalidation, and no retry or recovery protocol of its own.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ewahlberg/pressgang/internal/errors"
)

const (
	// DefaultTimeout is the default timeout for backend requests if not configured.
	DefaultTimeout = 15 * time.Second

	// Default connection pool settings
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second

	defaultTLSHandshakeTimeout   = 10 * time.Second
	defaultResponseHeaderTimeout = 10 * time.Second
	defaultDialTimeout           = 30 * time.Second
	defaultDialKeepAlive         = 30 * time.Second

	defaultUserAgent = "Pressgang"

	apiPrefix = "/api/v1"
)

// Sentinel errors surfaced to handlers. Handlers translate these into
// not-found pages, login redirects and form re-renders.
var (
	ErrNotFound     = errors.NewStd("resource not found")
	ErrUnauthorized = errors.NewStd("unauthorized")
	ErrForbidden    = errors.NewStd("forbidden")
)

// FieldErrors is the backend's validation failure payload (HTTP 422),
// keyed by form field name.
type FieldErrors struct {
	Fields map[string]string `json:"fields"`
}

// Error implements the error interface.
func (fe *FieldErrors) Error() string {
	if len(fe.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(fe.Fields))
	for field, msg := range fe.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorCategory implements errors.CategorizedError.
func (fe *FieldErrors) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryValidation
}

// Config holds configuration for creating a backend client.
type Config struct {
	// BaseURL is the root of the backend REST API, e.g. http://localhost:9000
	BaseURL string

	// APIKey is sent as X-Api-Key on every request, optional
	APIKey string

	// Timeout applied when the request context has no deadline
	Timeout time.Duration

	// CacheTTL is how long GET responses stay fresh (0 disables caching)
	CacheTTL time.Duration

	// UserAgent overrides the default User-Agent header
	UserAgent string

	// Logger for client operations; falls back to slog.Default
	Logger *slog.Logger

	// Debug enables request-level debug logging
	Debug bool
}

// Client talks to the CMS backend REST API.
//
// Reads go through a TTL cache; mutations invalidate the affected resource
// collection. The cache is patrickmn/go-cache with library-default semantics,
// not a custom store. Thread-safe for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	token     string // bearer token for authenticated calls, empty for public reads
	timeout   time.Duration
	userAgent string
	debug     bool

	httpClient *http.Client
	cache      *cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger

	// Hooks for observability (metrics); may be nil
	onRequest  func(resource, method string, status int, duration time.Duration)
	onCacheHit func(resource string, hit bool)
}

// NewClient creates a new backend client with pooled transport.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.Newf("backend base URL is required").
			Category(errors.CategoryConfiguration).
			Component("backend").
			Build()
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("backend base URL is not valid: %q", cfg.BaseURL).
			Category(errors.CategoryConfiguration).
			Component("backend").
			Build()
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("service", "backend")
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: defaultDialKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          defaultMaxIdleConns,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaultResponseHeaderTimeout,
	}

	var responseCache *cache.Cache
	if cfg.CacheTTL > 0 {
		responseCache = cache.New(cfg.CacheTTL, cfg.CacheTTL*2)
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		debug:     cfg.Debug,
		httpClient: &http.Client{
			Transport: transport,
			// No default timeout, handled per-request with context
		},
		cache:    responseCache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}

	logger.Info("backend client initialized",
		"base_url", c.baseURL,
		"timeout", cfg.Timeout,
		"cache_ttl", cfg.CacheTTL,
		"api_key_configured", cfg.APIKey != "")

	return c, nil
}

// WithToken returns a shallow copy of the client carrying the given bearer
// token. The copy shares the transport and cache with the receiver.
// Authenticated requests bypass the read cache.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// SetRequestHook sets an observer for completed backend requests.
// Must be called before the client is shared between goroutines.
func (c *Client) SetRequestHook(fn func(resource, method string, status int, duration time.Duration)) {
	c.onRequest = fn
}

// SetCacheHook sets an observer for cache lookups.
// Must be called before the client is shared between goroutines.
func (c *Client) SetCacheHook(fn func(resource string, hit bool)) {
	c.onCacheHit = fn
}

// Close closes idle connections in the connection pool.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
	if c.cache != nil {
		c.cache.Flush()
	}
}

// get performs a cached GET against an API path, decoding JSON into out.
func (c *Client) get(ctx context.Context, resource, path string, query url.Values, out any) error {
	cacheKey := path
	if len(query) > 0 {
		cacheKey += "?" + query.Encode()
	}

	// Authenticated reads bypass the cache: the admin must see its own writes.
	cacheable := c.cache != nil && c.token == ""
	if cacheable {
		if cached, found := c.cache.Get(cacheKey); found {
			if c.onCacheHit != nil {
				c.onCacheHit(resource, true)
			}
			return json.Unmarshal(cached.([]byte), out)
		}
		if c.onCacheHit != nil {
			c.onCacheHit(resource, false)
		}
	}

	body, err := c.do(ctx, resource, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	if cacheable {
		c.cache.Set(cacheKey, body, cache.DefaultExpiration)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.New(err).
			Category(errors.CategoryBackendAPI).
			Component("backend").
			Context("resource", resource).
			Context("operation", "decode-response").
			Build()
	}
	return nil
}

// mutate performs a write against an API path and invalidates the resource's
// cached reads. out may be nil when the response body is not needed.
func (c *Client) mutate(ctx context.Context, resource, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.New(err).
				Category(errors.CategoryBackendAPI).
				Component("backend").
				Context("operation", "encode-payload").
				Build()
		}
		body = bytes.NewReader(data)
	}

	respBody, err := c.do(ctx, resource, method, path, nil, body)
	if err != nil {
		return err
	}

	c.Invalidate(resource)

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.New(err).
				Category(errors.CategoryBackendAPI).
				Component("backend").
				Context("resource", resource).
				Context("operation", "decode-response").
				Build()
		}
	}
	return nil
}

// do executes a single request and maps error statuses to sentinels.
func (c *Client) do(ctx context.Context, resource, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Apply default timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	fullURL := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryBackendAPI).
			Component("backend").
			Context("operation", "build-request").
			Build()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if c.onRequest != nil {
			c.onRequest(resource, method, 0, duration)
		}
		return nil, errors.New(err).
			Category(errors.CategoryNetwork).
			Component("backend").
			URLContext(fullURL, c.timeout).
			Context("resource", resource).
			Build()
	}
	defer resp.Body.Close()

	if c.onRequest != nil {
		c.onRequest(resource, method, resp.StatusCode, duration)
	}
	if c.debug {
		c.logger.Debug("backend request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds())
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNetwork).
			Component("backend").
			Context("operation", "read-response").
			Build()
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}

	return nil, c.statusError(resp.StatusCode, resource, respBody)
}

// statusError maps a non-2xx backend response to a typed error.
func (c *Client) statusError(status int, resource string, body []byte) error {
	switch status {
	case http.StatusNotFound:
		return errors.New(fmt.Errorf("%s: %w", resource, ErrNotFound)).
			Category(errors.CategoryNotFound).
			Component("backend").
			Context("resource", resource).
			Build()
	case http.StatusUnauthorized:
		return errors.New(fmt.Errorf("%s: %w", resource, ErrUnauthorized)).
			Category(errors.CategoryAuth).
			Component("backend").
			Context("resource", resource).
			Build()
	case http.StatusForbidden:
		return errors.New(fmt.Errorf("%s: %w", resource, ErrForbidden)).
			Category(errors.CategoryAuth).
			Component("backend").
			Context("resource", resource).
			Build()
	case http.StatusUnprocessableEntity:
		fieldErrs := &FieldErrors{}
		if err := json.Unmarshal(body, fieldErrs); err != nil || len(fieldErrs.Fields) == 0 {
			fieldErrs.Fields = map[string]string{"_": "validation failed"}
		}
		return fieldErrs
	default:
		return errors.Newf("backend returned status %d for %s", status, resource).
			Category(errors.CategoryBackendAPI).
			Component("backend").
			Context("resource", resource).
			Context("status", status).
			Build()
	}
}

// Invalidate drops all cached reads for a resource collection.
func (c *Client) Invalidate(resource string) {
	if c.cache == nil {
		return
	}
	prefix := "/" + resource
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

// jsonBody encodes a payload for do(). Payloads here are static structs,
// so marshal failures degrade to an empty body.
func jsonBody(payload any) io.Reader {
	data, err := json.Marshal(payload)
	if err != nil {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(data)
}

// unmarshalResponse decodes a backend JSON body with error context.
func unmarshalResponse(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return errors.New(err).
			Category(errors.CategoryBackendAPI).
			Component("backend").
			Context("operation", "decode-response").
			Build()
	}
	return nil
}

// listQuery converts ListOptions into backend query parameters.
func listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("perPage", strconv.Itoa(opts.PerPage))
	}
	if opts.Search != "" {
		q.Set("q", opts.Search)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Tag != "" {
		q.Set("tag", opts.Tag)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	return q
}
