package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client composes requests against a fixed base URL and resolves responses.
// Client holds no mutable state after construction and is safe for
// concurrent use by multiple goroutines.
type Client struct {
	endpoint        *Endpoint
	headers         http.Header
	timeout         time.Duration
	transport       Transport
	observer        Observer
	requestIDHeader string
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for baseURL, which must be an absolute http or
// https URL. Its path, if any, prefixes every call path.
//
// Example:
//
//	client, err := http.NewClient("https://api.example.com/v1",
//	    http.WithTimeout(30*time.Second),
//	    http.WithHeader("Authorization", "Bearer token"),
//	)
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	endpoint, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		endpoint: endpoint,
		headers:  make(http.Header),
		observer: nopObserver{},
	}

	for _, option := range options {
		option(client)
	}

	if client.transport == nil {
		client.transport = NewNetTransport(nil)
	}

	return client, nil
}

// WithTimeout sets the timeout applied to every call. Zero means no timeout
// beyond the caller's context.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeader adds a default header to all requests made by this client.
// Headers set on individual calls override these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithHeaders adds several default headers.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for key, value := range headers {
			c.headers.Set(key, value)
		}
	}
}

// WithTransport replaces the transport used to perform requests.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPClient uses httpClient through a NetTransport.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.transport = NewNetTransport(httpClient)
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used for testing purposes.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		c.transport = insecureTransport()
	}
}

// WithObserver registers an observer for call diagnostics.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o == nil {
			o = nopObserver{}
		}
		c.observer = o
	}
}

// WithRequestIDHeader makes every call carry a random UUID in the named
// header, unless the call already sets it.
func WithRequestIDHeader(name string) ClientOption {
	return func(c *Client) {
		c.requestIDHeader = http.CanonicalHeaderKey(name)
	}
}

// Endpoint returns the parsed base URL.
func (c *Client) Endpoint() *Endpoint {
	return c.endpoint
}

// Compose builds the request a call would send, without sending it.
func (c *Client) Compose(method, path string, opts *CallOptions) (*ComposedRequest, error) {
	req, err := compose(c.endpoint, c.headers, method, path, opts)
	if err != nil {
		return nil, err
	}
	if c.requestIDHeader != "" && req.Header.Get(c.requestIDHeader) == "" {
		req.Header.Set(c.requestIDHeader, uuid.NewString())
	}
	req.Timeout = c.timeout
	return req, nil
}

// Call sends a request and resolves its response.
//
// On a 2xx status it returns the response and a nil error. On any other
// status it returns both the response and an *Error of kind KindHTTPStatus
// carrying the same response. Validation failures (KindInvalidArgument) are
// reported before any network I/O and transport failures (KindTransport)
// carry no response.
func (c *Client) Call(ctx context.Context, method, path string, opts *CallOptions) (*Response, error) {
	req, err := c.Compose(method, path, opts)
	if err != nil {
		c.observer.Observe(Event{Kind: EventError, Err: err})
		return nil, err
	}
	c.observer.Observe(Event{Kind: EventRequest, Request: req})

	start := time.Now()
	raw, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		err = &Error{Kind: KindTransport, Message: err.Error(), Err: err}
		c.observer.Observe(Event{Kind: EventError, Request: req, Err: err, Duration: time.Since(start)})
		return nil, err
	}

	transferStart := time.Now()
	var data []byte
	if raw.Body != nil {
		data, err = io.ReadAll(raw.Body)
		raw.Body.Close()
	}
	if err != nil {
		err = &Error{Kind: KindTransport, Message: fmt.Sprintf("read response body: %v", err), Err: err}
		c.observer.Observe(Event{Kind: EventError, Request: req, Err: err, Duration: time.Since(start)})
		return nil, err
	}

	resp, err := ResolveResponse(raw.StatusCode, raw.Header, data)
	resp.ResponseTime = time.Since(start)
	resp.Timing = raw.Timing
	resp.Timing.ContentTransferTime = time.Since(transferStart)
	if resp.Timing.StartTime.IsZero() {
		resp.Timing.StartTime = start
	}
	resp.Timing.TotalTime = resp.ResponseTime

	c.observer.Observe(Event{Kind: EventResponse, Request: req, Response: resp, Err: err, Duration: resp.ResponseTime})
	return resp, err
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, opts *CallOptions) (*Response, error) {
	return c.Call(ctx, http.MethodGet, path, opts)
}

// Head sends a HEAD request.
func (c *Client) Head(ctx context.Context, path string, opts *CallOptions) (*Response, error) {
	return c.Call(ctx, http.MethodHead, path, opts)
}

// Post sends a POST request.
func (c *Client) Post(ctx context.Context, path string, opts *CallOptions) (*Response, error) {
	return c.Call(ctx, http.MethodPost, path, opts)
}

// Put sends a PUT request.
func (c *Client) Put(ctx context.Context, path string, opts *CallOptions) (*Response, error) {
	return c.Call(ctx, http.MethodPut, path, opts)
}

// Patch sends a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, opts *CallOptions) (*Response, error) {
	return c.Call(ctx, http.MethodPatch, path, opts)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts *CallOptions) (*Response, error) {
	return c.Call(ctx, http.MethodDelete, path, opts)
}

// Options sends an OPTIONS request.
func (c *Client) Options(ctx context.Context, path string, opts *CallOptions) (*Response, error) {
	return c.Call(ctx, http.MethodOptions, path, opts)
}
