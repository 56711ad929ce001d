package http

import (
	"errors"
	"mime"
	"net/http"
	"strings"
)

const headerContentType = "Content-Type"

// HeaderFromMap builds an http.Header from a plain map, canonicalizing keys so
// that differently cased duplicates collapse into one entry.
func HeaderFromMap(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for key, value := range m {
		h.Set(key, value)
	}
	return h
}

// MergeHeaders combines client defaults with per-call headers. Keys are
// compared case-insensitively and per-call values win. inferredContentType,
// when non-empty, is only used if neither layer sets Content-Type. The inputs
// are not modified.
func MergeHeaders(defaults, perCall http.Header, inferredContentType string) http.Header {
	merged := make(http.Header, len(defaults)+len(perCall)+1)
	for key, values := range defaults {
		merged[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	for key, values := range perCall {
		merged[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	if inferredContentType != "" && merged.Get(headerContentType) == "" {
		merged.Set(headerContentType, inferredContentType)
	}
	return merged
}

// mediaType returns the lower-cased media type of a Content-Type value, or ""
// when there is none. Malformed parameters do not hide the media type.
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil || errors.Is(err, mime.ErrInvalidMediaParameter) {
		return mt
	}
	before, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(before))
}
