package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/restcall/internal/config"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	cfg := `
environments:
  test:
    baseUrl: ` + baseURL + `
    headers:
      Authorization: "Bearer {{token}}"
requests:
  a-login:
    method: POST
    path: /login
    type: json
    body:
      user: "{{user}}"
    extract:
      token: $.token
  b-me:
    method: GET
    path: /users/{id}
    pathParams:
      id: "{{user}}"
`
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

type recordingServer struct {
	mu    sync.Mutex
	auths []string
	paths []string
}

func (s *recordingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.auths = append(s.auths, r.Header.Get("Authorization"))
	s.paths = append(s.paths, r.URL.Path)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/login" {
		w.Write([]byte(`{"token":"t0k3n"}`))
		return
	}
	w.Write([]byte(`{"ok":true}`))
}

func TestRunCommand(t *testing.T) {
	rec := &recordingServer{}
	server := httptest.NewServer(rec)
	defer server.Close()
	cfg := writeConfig(t, server.URL)

	stdout, stderr, err := execute(t, "", "run", "-c", cfg, "--var", "user=ada")
	require.NoError(t, err, stderr)

	assert.Equal(t, []string{"/login", "/users/ada"}, rec.paths)
	// Unknown variables are left as written.
	assert.Equal(t, []string{"Bearer {{token}}", "Bearer t0k3n"}, rec.auths)
	assert.Contains(t, stdout, "# a-login")
	assert.Contains(t, stdout, "token = t0k3n")
	assert.Less(t, strings.Index(stdout, "# a-login"), strings.Index(stdout, "# b-me"))
}

func TestRunCommand_NamedRequests(t *testing.T) {
	rec := &recordingServer{}
	server := httptest.NewServer(rec)
	defer server.Close()
	cfg := writeConfig(t, server.URL)

	_, stderr, err := execute(t, "", "run", "-c", cfg, "-e", "test", "--var", "user=bob", "b-me")
	require.NoError(t, err, stderr)
	assert.Equal(t, []string{"/users/bob"}, rec.paths)
}

func TestRunCommand_Errors(t *testing.T) {
	cfg := writeConfig(t, "http://localhost")

	_, _, err := execute(t, "", "run")
	assert.ErrorContains(t, err, "config file is required")

	_, _, err = execute(t, "", "run", "-c", cfg, "-e", "prod")
	assert.ErrorContains(t, err, "environment 'prod' not found")

	_, _, err = execute(t, "", "run", "-c", cfg, "--var", "novalue")
	assert.ErrorContains(t, err, "invalid variable")

	_, stderr, err := execute(t, "", "run", "-c", cfg, "unknown")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "request 'unknown' not found")

	invalid := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"environments":{},"requests":{}}`), 0o644))
	_, stderr, err = execute(t, "", "run", "-c", invalid)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "Configuration validation errors:")
}

func TestPickEnvironment(t *testing.T) {
	single, err := config.ParseConfig([]byte(`{"environments":{"dev":{"baseUrl":"http://dev"}}}`), "json")
	require.NoError(t, err)
	env, err := pickEnvironment(single, "")
	require.NoError(t, err)
	assert.Equal(t, "dev", env)

	multi, err := config.ParseConfig([]byte(`{"environments":{"prod":{"baseUrl":"http://p"},"dev":{"baseUrl":"http://d"}}}`), "json")
	require.NoError(t, err)
	_, err = pickEnvironment(multi, "")
	assert.EqualError(t, err, "environment is required (--environment), one of: dev, prod")
	env, err = pickEnvironment(multi, "prod")
	require.NoError(t, err)
	assert.Equal(t, "prod", env)
}

func TestWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := NewRootCmd()
	cmd.SetContext(ctx)
	var out strings.Builder
	cmd.SetOut(&out)

	reruns := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchConfig(cmd, path, func() { reruns <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o644))
	}

	select {
	case <-reruns:
	case <-time.After(5 * time.Second):
		t.Fatal("no rerun after the file changed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
	assert.Empty(t, reruns, "a burst of writes triggers one rerun")
}
