// Package inspect reads values out of resolved responses and checks them
// against JSON schemas.
package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/restcall/internal/http"
)

// Extract returns the value at a JSONPath expression such as $.users[0].name
// from the raw response body.
func Extract(resp *http.Response, path string) (string, error) {
	if len(resp.RawBody) == 0 {
		return "", errors.New("empty response body")
	}
	if path == "" {
		return "", errors.New("empty JSONPath expression")
	}
	if !gjson.ValidBytes(resp.RawBody) {
		return "", errors.New("response body is not JSON")
	}

	result := gjson.GetBytes(resp.RawBody, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractAll extracts every named path. Values that could be extracted are
// returned even when others fail.
func ExtractAll(resp *http.Response, paths map[string]string) (map[string]string, error) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(paths))
	var failures []string
	for _, name := range names {
		value, err := Extract(resp, paths[name])
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// toGjsonPath converts a JSONPath expression to gjson syntax:
// $.users[0]['first name'] becomes users.0.first name.
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "$")
	if path == "" {
		return "@this"
	}

	var segments []string
	for len(path) > 0 {
		switch path[0] {
		case '.':
			path = path[1:]
		case '[':
			end := strings.IndexByte(path, ']')
			if end < 0 {
				segments = append(segments, escapeGjson(path[1:]))
				path = ""
				continue
			}
			segments = append(segments, escapeGjson(strings.Trim(path[1:end], `'"`)))
			path = path[end+1:]
		default:
			end := strings.IndexAny(path, ".[")
			if end < 0 {
				end = len(path)
			}
			segments = append(segments, path[:end])
			path = path[end:]
		}
	}
	if len(segments) == 0 {
		return "@this"
	}
	return strings.Join(segments, ".")
}

func escapeGjson(s string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(s)
}

// ValidationErrors collects the failures of a schema validation.
type ValidationErrors []error

// Error joins the messages with "; ".
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateSchema checks the response body against a JSON schema document.
// It returns nil when the body conforms, ValidationErrors when it does not,
// and a plain error when the schema or body cannot be used.
func ValidateSchema(resp *http.Response, schemaDoc string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaDoc)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(resp.RawBody, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return flatten(verr)
	}
	return ValidationErrors{err}
}

func flatten(err *jsonschema.ValidationError) ValidationErrors {
	var out ValidationErrors
	if err.Message != "" && len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		out = append(out, fmt.Errorf("validation error at %s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}
