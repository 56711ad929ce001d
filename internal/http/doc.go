// Package http builds requests from declarative call options and resolves
// responses into parsed bodies and uniform errors.
//
// A Client is bound to one base URL. Each call names a path template, and
// optionally placeholder values, query parameters, headers and a body:
//
//	client, err := http.NewClient("https://api.example.com/v1",
//	    http.WithHeader("Authorization", "Bearer token"),
//	    http.WithTimeout(10*time.Second),
//	)
//
//	resp, err := client.Get(ctx, "/users/{id}", &http.CallOptions{
//	    Path:  map[string]string{"id": "42"},
//	    Query: http.NewQuery().Set("fields", "name", "email"),
//	})
//
// The pipeline is: path placeholders are substituted and escaped, the path is
// joined to the base path, the query is appended, per-call headers are merged
// over the defaults, and the body is encoded as JSON or as a URL-encoded form.
// The Transport performs the exchange and the response body is parsed by its
// Content-Type: JSON into Go values, text/* into a string, anything else is
// kept as []byte.
//
// Placeholders with no value are left in the path as written. This is
// intentional: static paths may contain braces.
//
// Errors returned by Client are *Error values. A non-2xx status yields both a
// Response and an error of kind KindHTTPStatus; use errors.Is with
// ErrInvalidArgument, ErrTransport, ErrHTTPStatus or ErrMalformedResponse to
// branch on the kind.
//
// Client is safe for concurrent use. Multiple goroutines may invoke methods
// on a Client simultaneously.
package http
