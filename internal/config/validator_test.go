package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name          string
		config        *Config
		expectedPaths []string
	}{
		{
			name: "valid",
			config: &Config{
				Environments: map[string]Environment{"dev": {BaseURL: "https://api.example.com", Timeout: "10s"}},
				Requests:     map[string]Request{"r": {Method: "GET", Path: "/x", Type: "json"}},
			},
		},
		{
			name:          "empty",
			config:        &Config{},
			expectedPaths: []string{"environments", "requests"},
		},
		{
			name: "bad environment",
			config: &Config{
				Environments: map[string]Environment{
					"a": {},
					"b": {BaseURL: "ftp://x"},
					"c": {BaseURL: "{{base}}", Timeout: "later"},
				},
				Requests: map[string]Request{"r": {Method: "GET", Path: "/x"}},
			},
			expectedPaths: []string{"environments.a.baseUrl", "environments.b.baseUrl", "environments.c.timeout"},
		},
		{
			name: "bad request",
			config: &Config{
				Environments: map[string]Environment{"dev": {BaseURL: "http://localhost"}},
				Requests: map[string]Request{
					"r": {Method: "FETCH", Type: "xml"},
					"s": {Path: "/s"},
				},
			},
			expectedPaths: []string{"requests.r.method", "requests.r.path", "requests.r.type", "requests.s.method"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfig(tt.config)
			var paths []string
			for _, e := range errs {
				paths = append(paths, e.Path)
			}
			assert.Equal(t, tt.expectedPaths, paths)
		})
	}
}

func TestValidateLookups(t *testing.T) {
	config := &Config{
		Environments: map[string]Environment{"dev": {BaseURL: "http://localhost"}},
		Requests:     map[string]Request{"ping": {Method: "GET", Path: "/ping"}},
	}

	assert.NoError(t, ValidateEnvironment(config, "dev"))
	assert.EqualError(t, ValidateEnvironment(config, "prod"), "environment 'prod' not found")
	assert.NoError(t, ValidateRequest(config, "ping"))
	assert.EqualError(t, ValidateRequest(config, "pong"), "request 'pong' not found")
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Path: "requests.r.path", Message: "path is required"}
	assert.Equal(t, "requests.r.path: path is required", err.Error())
}
