package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration
type Config struct {
	Environments map[string]Environment `json:"environments" yaml:"environments"`
	Requests     map[string]Request     `json:"requests" yaml:"requests"`

	// dir is the directory of the loaded file; schema paths are relative to it.
	dir string
}

// Environment represents an environment configuration
type Environment struct {
	BaseURL         string            `json:"baseUrl" yaml:"baseUrl"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout         string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RequestIDHeader string            `json:"requestIdHeader,omitempty" yaml:"requestIdHeader,omitempty"`
	Vars            map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Request represents a named request
type Request struct {
	Method     string            `json:"method" yaml:"method"`
	Path       string            `json:"path" yaml:"path"`
	PathParams map[string]string `json:"pathParams,omitempty" yaml:"pathParams,omitempty"`
	Query      QueryParams       `json:"query,omitempty" yaml:"query,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Extract    map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`
	Schema     string            `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// LoadConfig loads a configuration file. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config, err := ParseConfig(data, formatOf(path))
	if err != nil {
		return nil, err
	}
	config.dir = filepath.Dir(path)

	return config, nil
}

// ParseConfig parses configuration data. format is "json" or "yaml".
func ParseConfig(data []byte, format string) (*Config, error) {
	var config Config
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		config.Requests = normalizeBodies(config.Requests)
	case "json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}
	return &config, nil
}

// Dir returns the directory of the loaded configuration file.
func (c *Config) Dir() string {
	return c.dir
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// normalizeBodies converts the map[interface{}]interface{} values some YAML
// documents decode into, so bodies can be JSON encoded.
func normalizeBodies(requests map[string]Request) map[string]Request {
	for name, req := range requests {
		req.Body = normalizeValue(req.Body)
		requests[name] = req
	}
	return requests
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalizeValue(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalizeValue(item)
		}
		return val
	default:
		return v
	}
}

// parseDurationString parses duration strings like "30s", "5m", "1 minute"
func parseDurationString(duration string) (time.Duration, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	duration = strings.ToLower(duration)
	duration = strings.ReplaceAll(duration, " ", "")

	// Longest words first so "seconds" is not turned into "ss".
	for _, r := range []struct{ word, abbrev string }{
		{"seconds", "s"}, {"second", "s"},
		{"minutes", "m"}, {"minute", "m"},
		{"hours", "h"}, {"hour", "h"},
	} {
		duration = strings.ReplaceAll(duration, r.word, r.abbrev)
	}

	return time.ParseDuration(duration)
}

// ProcessEnvironment replaces {{name}} references in input with vars[name].
func ProcessEnvironment(input string, vars map[string]string) string {
	if !strings.Contains(input, "{{") {
		return input
	}
	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ProcessEnvironmentInMap processes variables in every value of a map
func ProcessEnvironmentInMap(input map[string]string, vars map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = ProcessEnvironment(value, vars)
	}
	return result
}

// processValue applies ProcessEnvironment to every string inside a decoded
// body, returning a copy.
func processValue(v interface{}, vars map[string]string) interface{} {
	switch val := v.(type) {
	case string:
		return ProcessEnvironment(val, vars)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = processValue(item, vars)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = processValue(item, vars)
		}
		return out
	default:
		return v
	}
}

// MergeEnvironments merges two variable sets, with the second taking precedence
func MergeEnvironments(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
