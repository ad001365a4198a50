// Package gateway is the session-aware data-access layer over the marketplace
// backend REST API. Every exported operation performs exactly one HTTP
// request/response cycle and returns either a decoded record or a classified
// *Error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

var errEmptyBody = errors.New("empty response body")

// Credential is the caller's identity as issued by the identity provider.
// It is passed explicitly to every authenticated operation.
type Credential struct {
	Subject string // user id
	Token   string // bearer access token
}

// Client talks to the backend API. It is safe for concurrent use.
type Client struct {
	log        *zap.Logger
	baseURL    string
	httpClient *http.Client
	metrics    *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (no timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics records every outbound call into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client for the backend at baseURL (scheme and host,
// optionally a path prefix; "/api/v1" is appended per call).
func NewClient(log *zap.Logger, baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: want http(s)://host", baseURL)
	}

	c := &Client{
		log:        log.Named("gateway"),
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request id that is forwarded as X-Request-ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by ContextWithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// call describes one operation: how to build the request and how to read
// non-2xx responses.
type call struct {
	op       string // exported operation name, for logs/metrics
	resource string // singular resource noun
	action   string // completes "failed to ..."
	method   string
	path     string // relative to /api/v1, escaped, may carry a query
	public   bool   // no credential, no headers

	body        any       // JSON-encoded when non-nil
	rawBody     io.Reader // sent as-is with contentType
	contentType string

	notFound  string // 404 → KindNotFound with this message
	nilOn404  bool   // 404 → (false, nil)
	forbidden bool   // 403 → KindForbidden
	emptyOK   bool   // 2xx without a body is a success
	conflict  bool   // 409 → KindConflict
	tooLarge  bool   // 413 → KindPayloadTooLarge
}

// do executes c and decodes a 2xx body into out (which may be nil).
// It reports false without error only when the call allows a nil 404.
func (cl *Client) do(ctx context.Context, cred *Credential, c call, out any) (bool, error) {
	if !c.public && (cred == nil || cred.Token == "") {
		return false, cl.fail(c, &Error{Kind: KindUnauthenticated, Message: msgUnauthenticated})
	}

	req, err := cl.newRequest(ctx, cred, c)
	if err != nil {
		return false, cl.fail(c, &Error{Kind: KindUnknown, Message: c.genericMessage(), Err: err})
	}

	start := time.Now()
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		cl.metrics.observe(c.op, "error", time.Since(start))
		return false, cl.report("request failed", c, &Error{Kind: KindUnknown, Message: c.genericMessage(), Err: err})
	}
	defer resp.Body.Close()
	cl.metrics.observe(c.op, strconv.Itoa(resp.StatusCode), time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, cl.decodeFailure(c, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound && c.nilOn404 {
			return false, nil
		}
		return false, cl.fail(c, interpret(c, resp.StatusCode, body))
	}

	if out == nil {
		return true, nil
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if c.emptyOK {
			return true, nil
		}
		return false, cl.decodeFailure(c, resp.StatusCode, errEmptyBody)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, cl.decodeFailure(c, resp.StatusCode, err)
	}
	return true, nil
}

func (cl *Client) newRequest(ctx context.Context, cred *Credential, c call) (*http.Request, error) {
	var (
		body        io.Reader
		contentType = "application/json"
	)
	switch {
	case c.rawBody != nil:
		body = c.rawBody
		if c.contentType != "" {
			contentType = c.contentType
		}
	case c.body != nil:
		payload, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, cl.baseURL+apiPrefix+c.path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if c.public {
		return req, nil
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	return req, nil
}

// fail stamps the call context onto e, logs it once and returns it.
func (cl *Client) fail(c call, e *Error) *Error {
	return cl.report("backend call failed", c, e)
}

func (cl *Client) decodeFailure(c call, status int, err error) *Error {
	return cl.report("decode response failed", c, &Error{Kind: KindUnknown, Status: status, Message: c.genericMessage(), Err: err})
}

// report stamps e with the call and logs it under msg.
func (cl *Client) report(msg string, c call, e *Error) *Error {
	e.Resource = c.resource
	e.Op = c.op
	fields := []zap.Field{
		zap.String("resource", c.resource),
		zap.String("op", c.op),
		zap.String("method", c.method),
		zap.Int("status", e.Status),
		zap.String("kind", e.Kind.String()),
		zap.String("message", e.Message),
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	if e.Kind == KindServer || e.Kind == KindUnknown {
		cl.log.Error(msg, fields...)
	} else {
		cl.log.Warn(msg, fields...)
	}
	return e
}

func (c call) genericMessage() string { return "failed to " + c.action }

func escape(segment string) string { return url.PathEscape(segment) }
