package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wesleyorama2/restcall/internal/http"
)

// Call is a named request resolved against an environment and ready to send.
type Call struct {
	Name    string
	Method  string
	Path    string
	Options *http.CallOptions
	Extract map[string]string
	// Schema is the JSON schema document the response body must satisfy, or "".
	Schema string
}

// NewClient builds a client for the named environment. Variables in the base
// URL and headers are replaced using the environment's variables merged with
// overrides.
func (c *Config) NewClient(envName string, overrides map[string]string, extra ...http.ClientOption) (*http.Client, error) {
	if err := ValidateEnvironment(c, envName); err != nil {
		return nil, err
	}
	env := c.Environments[envName]
	vars := MergeEnvironments(env.Vars, overrides)

	opts := []http.ClientOption{
		http.WithHeaders(ProcessEnvironmentInMap(env.Headers, vars)),
	}
	if env.Timeout != "" {
		timeout, err := parseDurationString(env.Timeout)
		if err != nil {
			return nil, fmt.Errorf("environment '%s': invalid timeout: %w", envName, err)
		}
		opts = append(opts, http.WithTimeout(timeout))
	}
	if env.RequestIDHeader != "" {
		opts = append(opts, http.WithRequestIDHeader(env.RequestIDHeader))
	}
	opts = append(opts, extra...)

	return http.NewClient(ProcessEnvironment(env.BaseURL, vars), opts...)
}

// Call resolves the named request for the named environment.
func (c *Config) Call(envName, reqName string, overrides map[string]string) (*Call, error) {
	if err := ValidateEnvironment(c, envName); err != nil {
		return nil, err
	}
	if err := ValidateRequest(c, reqName); err != nil {
		return nil, err
	}
	req := c.Requests[reqName]
	vars := MergeEnvironments(c.Environments[envName].Vars, overrides)

	bodyType, err := http.ParseBodyType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("request '%s': %w", reqName, err)
	}

	opts := &http.CallOptions{
		Path:    ProcessEnvironmentInMap(req.PathParams, vars),
		Headers: ProcessEnvironmentInMap(req.Headers, vars),
		Body:    processValue(req.Body, vars),
		Type:    bodyType,
	}
	if len(req.Query) > 0 {
		opts.Query = http.NewQuery()
		for _, p := range req.Query {
			values := make([]string, len(p.Values))
			for i, v := range p.Values {
				values[i] = ProcessEnvironment(v, vars)
			}
			opts.Query.Set(p.Key, values...)
		}
	}

	schema, err := c.loadSchema(req.Schema)
	if err != nil {
		return nil, fmt.Errorf("request '%s': %w", reqName, err)
	}

	return &Call{
		Name:    reqName,
		Method:  strings.ToUpper(req.Method),
		Path:    ProcessEnvironment(req.Path, vars),
		Options: opts,
		Extract: req.Extract,
		Schema:  schema,
	}, nil
}

// loadSchema returns ref itself when it is an inline JSON document, otherwise
// reads it as a file relative to the config directory.
func (c *Config) loadSchema(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "{") {
		return ref, nil
	}
	path := ref
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading schema: %w", err)
	}
	return string(data), nil
}
