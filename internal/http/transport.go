package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ComposedRequest is a fully built request, ready to hand to a Transport.
type ComposedRequest struct {
	Method   string
	Scheme   string
	Hostname string
	Port     int
	// Auth is "user" or "user:password", taken from the base URL. It is sent
	// as basic credentials unless Header already carries Authorization.
	Auth string
	// Path includes the query string.
	Path    string
	Header  http.Header
	Body    []byte
	Timeout time.Duration
}

// URL returns the absolute request URL, without credentials.
func (r *ComposedRequest) URL() string {
	host := r.Hostname
	if r.Port == 0 || (r.Scheme == "http" && r.Port == 80) || (r.Scheme == "https" && r.Port == 443) {
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
	} else {
		host = net.JoinHostPort(host, strconv.Itoa(r.Port))
	}
	return r.Scheme + "://" + host + r.Path
}

// RawResponse is what a Transport hands back: status, headers and an unread
// body stream.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
	Timing     TimingInfo
}

// Transport performs a single request/response exchange. Implementations must
// honour ctx and ComposedRequest.Timeout, and must be safe for concurrent use.
type Transport interface {
	RoundTrip(ctx context.Context, req *ComposedRequest) (*RawResponse, error)
}

// NetTransport is a Transport backed by net/http. It never follows redirects.
type NetTransport struct {
	client *http.Client
}

// NewNetTransport wraps httpClient. A nil httpClient gets a default client.
// The redirect policy of httpClient is replaced.
func NewNetTransport(httpClient *http.Client) *NetTransport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := *httpClient
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &NetTransport{client: &c}
}

func insecureTransport() *NetTransport {
	return NewNetTransport(&http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
}

// RoundTrip sends req and returns the response with its body unread. The
// timeout of req covers the whole exchange including reading the body.
func (t *NetTransport) RoundTrip(ctx context.Context, req *ComposedRequest) (*RawResponse, error) {
	var cancel context.CancelFunc = func() {}
	if req.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
	}

	timing := TimingInfo{StartTime: time.Now()}
	ctx = timingTrace(ctx, &timing)

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(), body)
	if err != nil {
		cancel()
		return nil, err
	}
	for key, values := range req.Header {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	if req.Auth != "" && httpReq.Header.Get("Authorization") == "" {
		user, password, _ := strings.Cut(req.Auth, ":")
		httpReq.SetBasicAuth(user, password)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		cancel()
		return nil, err
	}
	timing.TotalTime = time.Since(timing.StartTime)

	return &RawResponse{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       &cancelOnClose{ReadCloser: httpResp.Body, cancel: cancel},
		Timing:     timing,
	}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
