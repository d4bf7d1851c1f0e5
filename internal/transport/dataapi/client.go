// Package dataapi is the HTTP client of the catalog data API.
package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/logger"
	"github.com/kailas-cloud/apicat/internal/metrics"
	"github.com/kailas-cloud/apicat/internal/version"
)

// RequestIDHeader carries a fresh id on every request for server-side tracing.
const RequestIDHeader = "x-ms-client-request-id"

const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 4 << 10
	maxDownloadSize  = 32 << 20
)

// Config holds the client settings.
type Config struct {
	BaseURL   string
	Workspace string
	// Token is sent as a bearer token. Empty means unauthenticated.
	Token   string
	Timeout time.Duration
	// HTTPClient supplies the base transport. Defaults to http.DefaultTransport.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client issues JSON requests against one workspace of the data API.
type Client struct {
	root          string
	workspaceRoot string
	http          *http.Client
	download      *http.Client
	authenticated bool
	logger        *zap.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	root := strings.TrimRight(cfg.BaseURL, "/")
	if root == "" {
		return nil, fmt.Errorf("data api base url is required")
	}
	workspace := cfg.Workspace
	if workspace == "" {
		workspace = "default"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	plain := &http.Client{Transport: base.Transport, Timeout: timeout}

	authed := plain
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, plain)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		authed = oauth2.NewClient(ctx, src)
		authed.Timeout = timeout
	}

	return &Client{
		root:          root,
		workspaceRoot: root + "/workspaces/" + workspace,
		http:          authed,
		download:      plain,
		authenticated: cfg.Token != "",
		logger:        logger.OrNop(cfg.Logger),
	}, nil
}

// Authenticated reports whether requests carry a credential.
func (c *Client) Authenticated() bool { return c.authenticated }

// WorkspaceURL resolves a workspace-relative path. Paths starting with ":"
// are actions on the workspace itself and are appended without a slash.
func (c *Client) WorkspaceURL(path string) string {
	if strings.HasPrefix(path, ":") {
		return c.workspaceRoot + path
	}
	return c.workspaceRoot + "/" + strings.TrimLeft(path, "/")
}

// RootURL resolves a path against the service root, outside any workspace.
func (c *Client) RootURL(path string) string {
	return c.root + "/" + strings.TrimLeft(path, "/")
}

// Get fetches a workspace-relative path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.http, http.MethodGet, c.WorkspaceURL(path), nil, out)
}

// GetRoot fetches a path outside the workspace prefix.
func (c *Client) GetRoot(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.http, http.MethodGet, c.RootURL(path), nil, out)
}

// GetURL fetches an absolute locator exactly as given, such as a nextLink.
func (c *Client) GetURL(ctx context.Context, rawURL string, out any) error {
	return c.do(ctx, c.http, http.MethodGet, rawURL, nil, out)
}

// Post sends body as JSON to a workspace-relative path. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, c.http, http.MethodPost, c.WorkspaceURL(path), body, out)
}

// Download fetches a pre-signed document link without credentials.
func (c *Client) Download(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.send(c.download, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, &domain.TransportError{Method: req.Method, URL: link, StatusCode: resp.StatusCode, Err: err}
	}
	return data, nil
}

// Ping checks that the workspace answers an authenticated list request.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, "/apis?$top=1", nil)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, target string, body, out any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(hc, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &domain.TransportError{
			Method: method, URL: target, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// send stamps the request id, records metrics and maps non-2xx responses
// to *domain.TransportError. The caller closes the body on success.
func (c *Client) send(hc *http.Client, req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := hc.Do(req)
	elapsed := time.Since(start)
	metrics.CatalogRequestDuration.WithLabelValues(req.Method).Observe(elapsed.Seconds())

	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		c.logger.Debug("catalog request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", requestID),
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		return nil, &domain.TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}

	metrics.CatalogRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug("catalog request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck // read-only body
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &domain.TransportError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       errorDetail(raw),
		}
	}
	return resp, nil
}

// errorDetail pulls the message out of an {"error":{"code","message"}} body,
// falling back to the trimmed raw text.
func errorDetail(raw []byte) string {
	var parsed struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Error.Message != "" {
		if parsed.Error.Code != "" {
			return parsed.Error.Code + ": " + parsed.Error.Message
		}
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
