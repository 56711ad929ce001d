package config

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

var knownMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// ValidateConfig validates the configuration. Errors are sorted by path.
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if len(config.Environments) == 0 {
		errors = append(errors, ValidationError{
			Path:    "environments",
			Message: "at least one environment is required",
		})
	}

	for name, env := range config.Environments {
		if env.BaseURL == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("environments.%s.baseUrl", name),
				Message: "baseUrl is required",
			})
		} else if !strings.Contains(env.BaseURL, "{{") &&
			!strings.HasPrefix(env.BaseURL, "http://") && !strings.HasPrefix(env.BaseURL, "https://") {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("environments.%s.baseUrl", name),
				Message: "baseUrl must start with http:// or https://",
			})
		}

		if env.Timeout != "" {
			if _, err := parseDurationString(env.Timeout); err != nil {
				errors = append(errors, ValidationError{
					Path:    fmt.Sprintf("environments.%s.timeout", name),
					Message: fmt.Sprintf("invalid timeout %q", env.Timeout),
				})
			}
		}
	}

	if len(config.Requests) == 0 {
		errors = append(errors, ValidationError{
			Path:    "requests",
			Message: "at least one request is required",
		})
	}

	for name, req := range config.Requests {
		if req.Path == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.path", name),
				Message: "path is required",
			})
		}

		if req.Method == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.method", name),
				Message: "method is required",
			})
		} else if !stringInSlice(strings.ToUpper(req.Method), knownMethods) {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.method", name),
				Message: fmt.Sprintf("invalid method %q", req.Method),
			})
		}

		switch strings.ToLower(req.Type) {
		case "", "json", "form":
		default:
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("requests.%s.type", name),
				Message: fmt.Sprintf("invalid type %q (expected json or form)", req.Type),
			})
		}
	}

	sort.Slice(errors, func(i, j int) bool { return errors[i].Path < errors[j].Path })
	return errors
}

// ValidateEnvironment checks that the named environment exists
func ValidateEnvironment(config *Config, envName string) error {
	if _, ok := config.Environments[envName]; !ok {
		return fmt.Errorf("environment '%s' not found", envName)
	}
	return nil
}

// ValidateRequest checks that the named request exists
func ValidateRequest(config *Config, reqName string) error {
	if _, ok := config.Requests[reqName]; !ok {
		return fmt.Errorf("request '%s' not found", reqName)
	}
	return nil
}

// stringInSlice checks if a string is in a slice
func stringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
