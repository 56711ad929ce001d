package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(kv ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}

func TestResolveResponse_BodyParsing(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		resp, err := ResolveResponse(200, header("Content-Type", "text/plain"), []byte("ok"))
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body)
	})

	t.Run("text with charset", func(t *testing.T) {
		resp, err := ResolveResponse(200, header("Content-Type", "text/html; charset=utf-8"), []byte("<p>"))
		require.NoError(t, err)
		assert.Equal(t, "<p>", resp.Body)
	})

	t.Run("json", func(t *testing.T) {
		resp, err := ResolveResponse(200, header("Content-Type", "application/json"), []byte(`{"is":"ok"}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"is": "ok"}, resp.Body)
	})

	t.Run("json suffix", func(t *testing.T) {
		resp, err := ResolveResponse(200, header("Content-Type", "application/problem+json"), []byte(`[1,2]`))
		require.NoError(t, err)
		assert.Equal(t, []any{float64(1), float64(2)}, resp.Body)
	})

	t.Run("empty json", func(t *testing.T) {
		resp, err := ResolveResponse(200, header("Content-Type", "application/json"), nil)
		require.NoError(t, err)
		assert.Nil(t, resp.Body)
	})

	t.Run("binary", func(t *testing.T) {
		raw := []byte{0x00, 0xff, 0x10, 0x7f}
		resp, err := ResolveResponse(200, header("Content-Type", "application/octet-stream"), raw)
		require.NoError(t, err)
		body, ok := resp.Body.([]byte)
		require.True(t, ok, "body is %T", resp.Body)
		assert.Len(t, body, 4)
		assert.Equal(t, raw, body)
	})

	t.Run("no content type", func(t *testing.T) {
		resp, err := ResolveResponse(200, nil, []byte("abc"))
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), resp.Body)
	})
}

func TestResolveResponse_MalformedContentTypeParams(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		expected    any
	}{
		{"text with bare param", "text/plain;charset", "ok", "ok"},
		{"text with trailing bare param", "text/plain; charset=utf-8; foo", "ok", "ok"},
		{"json with bare param", "application/json; charset", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"upper case type", "Application/JSON; charset", `[true]`, []any{true}},
		{"unparseable type", "/json", "ok", []byte("ok")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ResolveResponse(200, header("Content-Type", tt.contentType), []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Body)
		})
	}
}

func TestResolveResponse_MalformedJSON(t *testing.T) {
	resp, err := ResolveResponse(200, header("Content-Type", "application/json"), []byte(`{"is":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	require.NotNil(t, resp)
	assert.Equal(t, []byte(`{"is":`), resp.Body)

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Same(t, resp, callErr.Response)
}

func TestResolveResponse_StatusWinsOverBodyErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		header      http.Header
		body        string
		expectedMsg string
	}{
		{"html behind json content type", 502, header("Content-Type", "application/json"), "<html>Bad Gateway</html>", "Bad Gateway"},
		{"truncated json", 500, header("Content-Type", "application/problem+json"), `{"title":`, "Internal Server Error"},
		{"corrupt gzip", 503, header("Content-Encoding", "gzip"), "not gzip", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ResolveResponse(tt.status, tt.header, []byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrHTTPStatus)
			assert.NotErrorIs(t, err, ErrMalformedResponse)
			assert.Equal(t, tt.expectedMsg, err.Error())

			var callErr *Error
			require.ErrorAs(t, err, &callErr)
			require.Error(t, callErr.Err)
			assert.Same(t, resp, callErr.Response)
			assert.Equal(t, tt.status, callErr.StatusCode())
			assert.Equal(t, []byte(tt.body), resp.Body)
		})
	}

	t.Run("syntax error is reachable", func(t *testing.T) {
		_, err := ResolveResponse(502, header("Content-Type", "application/json"), []byte("<html>"))
		var syntaxErr *json.SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	})
}

func TestResolveResponse_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		expectedMsg string
	}{
		{"text body is message", 400, "text/plain", "Validation error", "Validation error"},
		{"no body uses reason phrase", 400, "", "", "Bad Request"},
		{"empty text uses reason phrase", 404, "text/plain", "", "Not Found"},
		{"json body uses reason phrase", 500, "application/json", `{"error":"boom"}`, "Internal Server Error"},
		{"unknown status", 499, "", "", "Request failed: 499"},
		{"redirect is an error", 302, "", "", "Found"},
		{"text body with bare param", 400, "text/plain;charset", "Validation error", "Validation error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ResolveResponse(tt.status, header("Content-Type", tt.contentType), []byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.expectedMsg, err.Error())
			assert.ErrorIs(t, err, ErrHTTPStatus)

			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)

			var callErr *Error
			require.ErrorAs(t, err, &callErr)
			assert.Same(t, resp, callErr.Response)
			assert.Equal(t, tt.status, callErr.StatusCode())
		})
	}
}

func TestResolveResponse_Success(t *testing.T) {
	for _, code := range []int{200, 201, 204, 299} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			resp, err := ResolveResponse(code, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, code, resp.StatusCode)
		})
	}
}

func TestResolveResponse_ContentEncoding(t *testing.T) {
	payload := []byte(`{"compressed":true}`)

	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		resp, err := ResolveResponse(200, header("Content-Type", "application/json", "Content-Encoding", "gzip"), buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"compressed": true}, resp.Body)
		assert.Equal(t, payload, resp.RawBody)
	})

	t.Run("zstd", func(t *testing.T) {
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		compressed := enc.EncodeAll(payload, nil)
		require.NoError(t, enc.Close())

		resp, err := ResolveResponse(200, header("Content-Type", "application/json", "Content-Encoding", "zstd"), compressed)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"compressed": true}, resp.Body)
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		resp, err := ResolveResponse(200, header("Content-Encoding", "gzip"), []byte("not gzip"))
		assert.ErrorIs(t, err, ErrMalformedResponse)
		require.NotNil(t, resp)
	})
}

func TestResponse_BodyString(t *testing.T) {
	assert.Equal(t, "hi", (&Response{Body: "hi"}).BodyString())
	assert.Equal(t, "raw", (&Response{Body: []byte("raw")}).BodyString())
	assert.Equal(t, "", (&Response{}).BodyString())
	assert.Equal(t, `{"a":1}`, (&Response{Body: map[string]any{"a": 1.0}, RawBody: []byte(`{"a":1}`)}).BodyString())
}

func TestResponse_DecodeJSON(t *testing.T) {
	resp := &Response{RawBody: []byte(`{"message":"success","code":200}`)}

	var result struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	require.NoError(t, resp.DecodeJSON(&result))
	assert.Equal(t, "success", result.Message)
	assert.Equal(t, 200, result.Code)
}

func TestResponse_GetHeader(t *testing.T) {
	resp := &Response{Headers: header("Content-Type", "application/json", "X-Test", "test-value")}

	if resp.GetHeader("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got %s", resp.GetHeader("Content-Type"))
	}
	if resp.GetHeader("x-test") != "test-value" {
		t.Errorf("Expected X-Test: test-value, got %s", resp.GetHeader("x-test"))
	}
	if resp.GetHeader("Non-Existent") != "" {
		t.Errorf("Expected empty string for non-existent header, got %s", resp.GetHeader("Non-Existent"))
	}
}

func TestResponse_StatusMethods(t *testing.T) {
	tests := []struct {
		statusCode    int
		isSuccess     bool
		isRedirect    bool
		isClientError bool
		isServerError bool
	}{
		{200, true, false, false, false},
		{201, true, false, false, false},
		{301, false, true, false, false},
		{302, false, true, false, false},
		{400, false, false, true, false},
		{404, false, false, true, false},
		{500, false, false, false, true},
		{503, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.statusCode), func(t *testing.T) {
			resp := &Response{StatusCode: tt.statusCode}

			if resp.IsSuccess() != tt.isSuccess {
				t.Errorf("IsSuccess() = %v, want %v", resp.IsSuccess(), tt.isSuccess)
			}
			if resp.IsRedirect() != tt.isRedirect {
				t.Errorf("IsRedirect() = %v, want %v", resp.IsRedirect(), tt.isRedirect)
			}
			if resp.IsClientError() != tt.isClientError {
				t.Errorf("IsClientError() = %v, want %v", resp.IsClientError(), tt.isClientError)
			}
			if resp.IsServerError() != tt.isServerError {
				t.Errorf("IsServerError() = %v, want %v", resp.IsServerError(), tt.isServerError)
			}
		})
	}
}

func TestResponse_GetResponseTimeMillis(t *testing.T) {
	resp := &Response{ResponseTime: 123 * time.Millisecond}
	if resp.GetResponseTimeMillis() != 123 {
		t.Errorf("Expected response time 123ms, got %dms", resp.GetResponseTimeMillis())
	}
}
