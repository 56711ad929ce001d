package http

import (
	"testing"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		params   map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			path:     "/users/{id}",
			params:   map[string]string{"id": "42"},
			expected: "/users/42",
		},
		{
			name:     "value is escaped",
			path:     "/files/{name}",
			params:   map[string]string{"name": "a b/c&d"},
			expected: "/files/a%20b%2Fc%26d",
		},
		{
			name:     "repeated placeholder",
			path:     "/{x}/{x}",
			params:   map[string]string{"x": "y"},
			expected: "/y/y",
		},
		{
			name:     "unbound placeholder left literal",
			path:     "/users/{id}/posts/{postId}",
			params:   map[string]string{"id": "7"},
			expected: "/users/7/posts/{postId}",
		},
		{
			name:     "no params",
			path:     "/static/{braces}",
			params:   nil,
			expected: "/static/{braces}",
		},
		{
			name:     "unterminated brace",
			path:     "/a/{id}/{oops",
			params:   map[string]string{"id": "1"},
			expected: "/a/1/{oops",
		},
		{
			name:     "sub-delimiters kept",
			path:     "/notes/{title}",
			params:   map[string]string{"title": "it's (a)*!"},
			expected: "/notes/it's%20(a)*!",
		},
		{
			name:     "plus and percent escaped",
			path:     "/q/{v}",
			params:   map[string]string{"v": "1+1=2%"},
			expected: "/q/1%2B1%3D2%25",
		},
		{
			name:     "literal segment not escaped",
			path:     "/a b/{id}",
			params:   map[string]string{"id": "é"},
			expected: "/a b/%C3%A9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePath(tt.path, tt.params)
			if got != tt.expected {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
