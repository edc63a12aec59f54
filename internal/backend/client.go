// Package backend talks to the research REST API that owns every record the
// site displays.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const maxResponseBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Cache      *Cache
	Metrics    *Metrics
	Logger     *slog.Logger
}

// Client issues JSON reads and writes against the API and validates every
// decoded payload against its struct tags.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    *Cache
	metrics  *Metrics
	logger   *slog.Logger
	validate *validator.Validate
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend: base url required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  base,
		http:     httpClient,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		logger:   logger.With(slog.String("component", "backend")),
		validate: validator.New(),
	}, nil
}

// Cache exposes the response cache, nil when caching is disabled.
func (c *Client) Cache() *Cache {
	return c.cache
}

// Get reads path into dest. Responses are served from the cache when one is
// configured.
func (c *Client) Get(ctx context.Context, path string, dest any) error {
	if c.cache == nil {
		return c.do(ctx, http.MethodGet, path, nil, dest)
	}
	key, err := c.cache.BuildKey(ctx, "samlap", "backend", path)
	if err != nil {
		c.logger.Warn("cache key unavailable", slog.String("path", path), slog.Any("error", err))
		return c.do(ctx, http.MethodGet, path, nil, dest)
	}
	loaded := false
	err = c.cache.FetchJSON(ctx, key, dest, func(ctx context.Context) error {
		loaded = true
		return c.do(ctx, http.MethodGet, path, nil, dest)
	})
	c.metrics.cacheLookup(path, !loaded)
	return err
}

// Post sends body as JSON and decodes the response into dest when dest is non-nil.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, body, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		c.metrics.observe(method, path, outcome, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			outcome = "encode"
			return fmt.Errorf("backend: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport"
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%w: read %s: %v", ErrTransport, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "status"
		statusErr := &StatusError{Method: method, Path: path, Status: resp.StatusCode, Detail: extractDetail(raw)}
		c.logger.Debug("backend returned error status", slog.String("method", method), slog.String("path", path), slog.Int("status", resp.StatusCode))
		return statusErr
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		outcome = "schema"
		return fmt.Errorf("%w: decode %s: %v", ErrSchema, path, err)
	}
	if err := c.validatePayload(dest); err != nil {
		outcome = "schema"
		return fmt.Errorf("%w: %s: %v", ErrSchema, path, err)
	}
	return nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// validatePayload runs struct validation on dest, or on each element when dest
// points at a slice of structs.
func (c *Client) validatePayload(dest any) error {
	value := reflect.ValueOf(dest)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	switch value.Kind() {
	case reflect.Struct:
		return c.validate.Struct(value.Addr().Interface())
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			item := value.Index(i)
			if item.Kind() != reflect.Struct {
				continue
			}
			if err := c.validate.Struct(item.Addr().Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

func extractDetail(raw []byte) string {
	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch detail := body.Detail.(type) {
	case string:
		return strings.TrimSpace(detail)
	case []any:
		parts := make([]string, 0, len(detail))
		for _, item := range detail {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, " ")
	}
	return strings.TrimSpace(body.Error)
}
