package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Response is a resolved HTTP response.
//
// Body holds the parsed payload: a string for text/* content, the decoded JSON
// value (map[string]any, []any, string, float64, bool or nil) for JSON
// content, and the raw bytes for anything else. RawBody always holds the
// bytes after content decoding.
type Response struct {
	StatusCode   int
	Status       string
	Headers      http.Header
	Body         any
	RawBody      []byte
	ResponseTime time.Duration
	Timing       TimingInfo
}

// ResolveResponse parses raw according to the Content-Type in header and
// classifies statusCode. For a status outside [200,300) it returns both the
// response and an *Error of kind KindHTTPStatus that carries it.
func ResolveResponse(statusCode int, header http.Header, raw []byte) (*Response, error) {
	if header == nil {
		header = make(http.Header)
	}
	resp := &Response{
		StatusCode: statusCode,
		Status:     statusLine(statusCode),
		Headers:    header,
		RawBody:    raw,
	}

	decoded, err := decodeContentEncoding(header, raw)
	if err != nil {
		resp.Body = raw
		return resp, malformedError(resp, "decode response body", err)
	}
	resp.RawBody = decoded

	body, err := parseBody(header.Get(headerContentType), decoded)
	if err != nil {
		resp.Body = decoded
		return resp, malformedError(resp, "parse response body", err)
	}
	resp.Body = body

	if resp.IsSuccess() {
		return resp, nil
	}
	return resp, &Error{
		Kind:     KindHTTPStatus,
		Message:  statusErrorMessage(statusCode, body),
		Response: resp,
	}
}

// malformedError reports a body that could not be read. A non-2xx status is
// still the primary failure; the body error is kept in Err.
func malformedError(resp *Response, op string, err error) *Error {
	if !resp.IsSuccess() {
		return &Error{
			Kind:     KindHTTPStatus,
			Message:  statusErrorMessage(resp.StatusCode, nil),
			Response: resp,
			Err:      err,
		}
	}
	return &Error{
		Kind:     KindMalformedResponse,
		Message:  fmt.Sprintf("%s: %v", op, err),
		Response: resp,
		Err:      err,
	}
}

func parseBody(contentType string, data []byte) (any, error) {
	mt := mediaType(contentType)
	switch {
	case mt == "":
		return data, nil
	case isJSONMediaType(mt):
		if len(data) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case strings.HasPrefix(mt, "text/"):
		return string(data), nil
	default:
		return data, nil
	}
}

func isJSONMediaType(mt string) bool {
	return mt == contentTypeJSON ||
		(strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

func statusErrorMessage(code int, body any) string {
	if s, ok := body.(string); ok && s != "" {
		return s
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fmt.Sprintf("Request failed: %d", code)
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}

// BodyString returns the body as text. JSON bodies are returned as received.
func (r *Response) BodyString() string {
	switch b := r.Body.(type) {
	case string:
		return b
	case []byte:
		return string(b)
	case nil:
		return ""
	default:
		return string(r.RawBody)
	}
}

// DecodeJSON unmarshals the raw body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.RawBody, v)
}

// GetHeader returns the value of the specified header
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the response status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// GetResponseTimeMillis returns the response time in milliseconds
func (r *Response) GetResponseTimeMillis() int64 {
	return r.ResponseTime.Milliseconds()
}
