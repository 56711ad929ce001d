package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// BodyType selects how a request body is serialized.
type BodyType int

const (
	// BodyTypeUnset means the type is taken from the Content-Type header.
	BodyTypeUnset BodyType = iota
	// BodyTypeJSON serializes the body as JSON.
	BodyTypeJSON
	// BodyTypeForm serializes the body as application/x-www-form-urlencoded.
	BodyTypeForm
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
	formCharset     = "; charset=utf-8"
)

// String returns the option name of the body type.
func (t BodyType) String() string {
	switch t {
	case BodyTypeJSON:
		return "json"
	case BodyTypeForm:
		return "form"
	default:
		return ""
	}
}

// ParseBodyType parses "json", "form" or "" into a BodyType.
func ParseBodyType(s string) (BodyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return BodyTypeUnset, nil
	case "json":
		return BodyTypeJSON, nil
	case "form":
		return BodyTypeForm, nil
	default:
		return BodyTypeUnset, invalidArgument(fmt.Sprintf("unknown body type: %q", s))
	}
}

// ContentType returns the header value written for bodies of this type.
func (t BodyType) ContentType() string {
	switch t {
	case BodyTypeJSON:
		return contentTypeJSON
	case BodyTypeForm:
		return contentTypeForm + formCharset
	default:
		return ""
	}
}

// ResolveBodyType returns explicit when it is set. Otherwise the type is
// inferred from the Content-Type of header; BodyTypeUnset means neither source
// decided.
func ResolveBodyType(explicit BodyType, header http.Header) BodyType {
	if explicit != BodyTypeUnset {
		return explicit
	}
	switch mediaType(header.Get(headerContentType)) {
	case contentTypeJSON:
		return BodyTypeJSON
	case contentTypeForm:
		return BodyTypeForm
	default:
		return BodyTypeUnset
	}
}

// EncodedBody is a serialized request body and the content type it implies.
type EncodedBody struct {
	Data        []byte
	ContentType string
}

// EncodeBody serializes body according to t, falling back to the
// Content-Type in header when t is unset. A nil body, including a nil map,
// slice or pointer, encodes to nil without error whatever the type.
func EncodeBody(body any, t BodyType, header http.Header) (*EncodedBody, error) {
	if isNilBody(body) {
		return nil, nil
	}

	switch ResolveBodyType(t, header) {
	case BodyTypeJSON:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf("encode json body: %v", err), Err: err}
		}
		return &EncodedBody{Data: data, ContentType: BodyTypeJSON.ContentType()}, nil
	case BodyTypeForm:
		q, err := formQuery(body)
		if err != nil {
			return nil, err
		}
		return &EncodedBody{Data: []byte(encodeForm(q)), ContentType: BodyTypeForm.ContentType()}, nil
	default:
		return nil, invalidArgument("type required")
	}
}

func isNilBody(body any) bool {
	if body == nil {
		return true
	}
	switch v := reflect.ValueOf(body); v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// encodeForm differs from Query.Encode in that keys are escaped too.
func encodeForm(q *Query) string {
	pairs := make([]string, 0, q.Len())
	for _, key := range q.Keys() {
		for _, value := range q.Values(key) {
			pairs = append(pairs, escapeComponent(key)+"="+escapeComponent(value))
		}
	}
	return strings.Join(pairs, "&")
}

func formQuery(body any) (*Query, error) {
	switch b := body.(type) {
	case *Query:
		return b, nil
	case url.Values:
		return QueryFromValues(b), nil
	case map[string][]string:
		return QueryFromValues(b), nil
	case map[string]string:
		q := NewQuery()
		for _, k := range sortedKeys(b) {
			q.Set(k, b[k])
		}
		return q, nil
	case map[string]any:
		q := NewQuery()
		for _, k := range sortedKeys(b) {
			values, err := formValues(k, b[k])
			if err != nil {
				return nil, err
			}
			q.Set(k, values...)
		}
		return q, nil
	default:
		return nil, invalidArgument(fmt.Sprintf("form body must be a flat mapping, got %T", body))
	}
}

func formValues(key string, v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{""}, nil
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := scalarString(item)
			if !ok {
				return nil, invalidArgument(fmt.Sprintf("form field %q: nested values are not supported", key))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, ok := scalarString(val)
		if !ok {
			return nil, invalidArgument(fmt.Sprintf("form field %q: nested values are not supported", key))
		}
		return []string{s}, nil
	}
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
