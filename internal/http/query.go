package http

import (
	"net/url"
	"sort"
	"strings"
)

// Query is an ordered set of query parameters. Keys keep the order in which
// they were first set and each key may hold several values.
//
// The zero value is not usable; create one with NewQuery.
type Query struct {
	keys   []string
	values map[string][]string
}

// NewQuery creates an empty Query.
func NewQuery() *Query {
	return &Query{values: make(map[string][]string)}
}

// QueryFromValues converts url.Values into a Query. Since url.Values has no
// order, keys are sorted.
func QueryFromValues(v url.Values) *Query {
	q := NewQuery()
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, v[k]...)
	}
	return q
}

// Set replaces the values of key. A single value is a scalar parameter and
// several values form a list. The key keeps its original position if it was
// already present.
func (q *Query) Set(key string, values ...string) *Query {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append([]string(nil), values...)
	return q
}

// Add appends value to the list held by key.
func (q *Query) Add(key, value string) *Query {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append(q.values[key], value)
	return q
}

// Get returns the first value of key, or "".
func (q *Query) Get(key string) string {
	if q == nil || len(q.values[key]) == 0 {
		return ""
	}
	return q.values[key][0]
}

// Values returns all values of key.
func (q *Query) Values(key string) []string {
	if q == nil {
		return nil
	}
	return q.values[key]
}

// Keys returns the keys in insertion order.
func (q *Query) Keys() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.keys...)
}

// Len returns the number of distinct keys.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// Encode serializes the query as key=value pairs joined by '&', one pair per
// value. Values are escaped, keys are written as given. An empty or nil Query
// encodes to "".
func (q *Query) Encode() string {
	if q.Len() == 0 {
		return ""
	}

	var b strings.Builder
	for _, key := range q.keys {
		for _, value := range q.values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(escapeComponent(value))
		}
	}
	return b.String()
}

// appendQuery adds the encoded query to path after a single '?'.
func appendQuery(path string, q *Query) string {
	encoded := q.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
