package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// QueryParam is one query key with its values. A scalar in the file becomes
// a single value, a list becomes one value per element.
type QueryParam struct {
	Key    string
	Values []string
}

// QueryParams keeps query parameters in the order they appear in the file.
type QueryParams []QueryParam

// UnmarshalJSON decodes a JSON object while preserving key order.
func (q *QueryParams) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*q = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("query must be an object")
	}

	var params QueryParams
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		values, err := queryValues(key, raw)
		if err != nil {
			return err
		}
		params = append(params, QueryParam{Key: key, Values: values})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*q = params
	return nil
}

// UnmarshalYAML decodes a YAML mapping while preserving key order.
func (q *QueryParams) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: query must be a mapping", node.Line)
	}

	params := make(QueryParams, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value

		var raw interface{}
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return err
		}
		values, err := queryValues(key, raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Content[i].Line, err)
		}
		params = append(params, QueryParam{Key: key, Values: values})
	}

	*q = params
	return nil
}

func queryValues(key string, raw interface{}) ([]string, error) {
	switch val := raw.(type) {
	case nil:
		return []string{""}, nil
	case []interface{}:
		values := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := scalar(item)
			if !ok {
				return nil, fmt.Errorf("query %q: list elements must be scalars", key)
			}
			values = append(values, s)
		}
		return values, nil
	default:
		s, ok := scalar(val)
		if !ok {
			return nil, fmt.Errorf("query %q: value must be a scalar or a list", key)
		}
		return []string{s}, nil
	}
}

func scalar(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}
