package http

import (
	"net/url"
	"strings"
)

// ResolvePath replaces each {name} token in path with the escaped value of
// params[name].
//
// Tokens with no entry in params are left in place untouched, so a path may be
// partially resolved. Callers that use literal braces in static paths rely on
// this.
func ResolvePath(path string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(path, "{") {
		return path
	}

	var b strings.Builder
	b.Grow(len(path))

	for {
		open := strings.IndexByte(path, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(path[open+1:], '}')
		if end < 0 {
			break
		}
		end += open + 1

		b.WriteString(path[:open])
		name := path[open+1 : end]
		if value, ok := params[name]; ok {
			b.WriteString(escapeComponent(value))
		} else {
			b.WriteString(path[open : end+1])
		}
		path = path[end+1:]
	}

	b.WriteString(path)
	return b.String()
}

// componentUnescaper restores the sub-delimiters that url.QueryEscape encodes
// but a URI component may carry literally.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes s for use as a single URI component. Letters,
// digits and -_.!~*'() are kept; everything else is percent-encoded and
// spaces become %20.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
