package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/tracing"
)

// RequestIDHeader carries a per-request UUID so backend logs can be
// matched with the debug log.
const RequestIDHeader = "X-Request-ID"

// Client talks to the registration backend. It is safe for concurrent use.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	userAgent      string
	newRequestID   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// still wrapped with otelhttp.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTracerProvider traces requests with tp instead of a no-op provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracerProvider = tp }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRequestIDFunc overrides request ID generation. Used by tests.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.newRequestID = fn }
}

// New creates a client for baseURL. timeout bounds each request,
// including reading the response body, unless the supplied HTTP client
// already sets one.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:        u,
		httpClient:     &http.Client{},
		tracerProvider: noop.NewTracerProvider(),
		userAgent:      "signup",
		newRequestID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = otelhttp.NewTransport(base, otelhttp.WithTracerProvider(c.tracerProvider))
	if hc.Timeout == 0 {
		hc.Timeout = timeout
	}
	c.httpClient = &hc
	c.tracer = c.tracerProvider.Tracer(tracing.ServiceName + "/api")

	return c, nil
}

// CheckUsername asks the backend whether username is unused.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanCheckUsername,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.AttrUsername.String(username)),
	)
	defer span.End()

	path := CheckUsernamePath + url.PathEscape(username)
	resp, err := c.do(ctx, span, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	var body UsernameAvailabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		return false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	span.SetAttributes(tracing.AttrAvailable.Bool(body.Data.Status))
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatAPI, "Username checked", "username", username, "available", body.Data.Status)

	return body.Data.Status, nil
}

// Register submits the registration payload. Any 2xx is success; the
// response body is ignored.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	ctx, span := c.tracer.Start(ctx, tracing.SpanRegister,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.AttrUsername.String(req.Username)),
	)
	defer span.End()

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding register request: %w", err)
	}

	resp, err := c.do(ctx, span, http.MethodPost, RegisterPath, payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	span.SetStatus(codes.Ok, "")
	log.Info(log.CatAPI, "Registered", "username", req.Username)
	return nil
}

// do sends one request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, span trace.Span, method, path string, body []byte) (*http.Response, error) {
	endpoint := c.baseURL.String() + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}

	requestID := c.newRequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	span.SetAttributes(tracing.AttrRequestID.String(requestID))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		log.Warn(log.CatAPI, "Request failed", "method", method, "path", path, "requestID", requestID, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	span.SetAttributes(tracing.AttrStatusCode.Int(resp.StatusCode))
	log.Debug(log.CatAPI, "Response", "method", method, "path", path, "status", resp.StatusCode,
		"requestID", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		statusErr := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
		span.SetStatus(codes.Error, statusErr.Error())
		return nil, statusErr
	}

	return resp, nil
}
