package config

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	restcall "github.com/wesleyorama2/restcall/internal/http"
)

func TestConfig_Call(t *testing.T) {
	config, err := ParseConfig([]byte(jsonConfig), "json")
	require.NoError(t, err)

	call, err := config.Call("dev", "getUser", nil)
	require.NoError(t, err)
	assert.Equal(t, "GET", call.Method)
	assert.Equal(t, "/users/{id}", call.Path)
	assert.Equal(t, map[string]string{"id": "1"}, call.Options.Path)
	assert.Equal(t, "z=last&fields=name&fields=email&page=2&active=true", call.Options.Query.Encode())

	call, err = config.Call("dev", "createUser", map[string]string{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, restcall.BodyTypeJSON, call.Options.Type)
	assert.Equal(t, map[string]interface{}{"name": "Ada", "tags": []interface{}{"a", "1"}}, call.Options.Body)

	// the parsed config is not modified by substitution
	body := config.Requests["createUser"].Body.(map[string]interface{})
	assert.Equal(t, "{{name}}", body["name"])

	_, err = config.Call("prod", "getUser", nil)
	assert.Error(t, err)
	_, err = config.Call("dev", "missing", nil)
	assert.Error(t, err)
}

func TestConfig_NewClientAndSend(t *testing.T) {
	var gotAuth, gotURI, gotBody, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotURI = r.RequestURI
		gotRequestID = r.Header.Get("X-Request-Id")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	config, err := ParseConfig([]byte(`
environments:
  test:
    baseUrl: "{{base}}/api"
    requestIdHeader: X-Request-Id
    timeout: 2s
    headers:
      Authorization: "Token {{token}}"
    variables:
      token: abc
requests:
  login:
    method: post
    path: /login/{tenant}
    pathParams:
      tenant: acme corp
    query:
      next: /home
    type: form
    body:
      user: "{{user}}"
      remember: true
`), "yaml")
	require.NoError(t, err)
	require.Empty(t, ValidateConfig(config))

	overrides := map[string]string{"base": server.URL, "user": "ada"}
	client, err := config.NewClient("test", overrides)
	require.NoError(t, err)

	call, err := config.Call("test", "login", overrides)
	require.NoError(t, err)

	resp, err := client.Call(context.Background(), call.Method, call.Path, call.Options)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"ok": true}, resp.Body)

	assert.Equal(t, "Token abc", gotAuth)
	assert.Equal(t, "/api/login/acme%20corp?next=%2Fhome", gotURI)
	assert.Equal(t, "remember=true&user=ada", gotBody)
	assert.Len(t, gotRequestID, 36)
}

func TestConfig_LoadSchema(t *testing.T) {
	dir := t.TempDir()
	schema := `{"type":"object"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.schema.json"), []byte(schema), 0644))

	configPath := filepath.Join(dir, "restcall.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"environments": {"dev": {"baseUrl": "http://localhost"}},
		"requests": {
			"fromFile": {"method": "GET", "path": "/a", "schema": "user.schema.json"},
			"inline": {"method": "GET", "path": "/b", "schema": "{\"type\":\"array\"}"},
			"missing": {"method": "GET", "path": "/c", "schema": "nope.json"}
		}
	}`), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, dir, config.Dir())

	call, err := config.Call("dev", "fromFile", nil)
	require.NoError(t, err)
	assert.Equal(t, schema, call.Schema)

	call, err = config.Call("dev", "inline", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"array"}`, call.Schema)

	_, err = config.Call("dev", "missing", nil)
	assert.ErrorContains(t, err, "error reading schema")
}
