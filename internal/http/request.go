package http

import (
	"net/http"
)

// CallOptions describes the variable parts of a single call. Every field is
// optional and a nil *CallOptions is the same as an empty one.
type CallOptions struct {
	// Path binds {name} placeholders in the call path.
	Path map[string]string
	// Query is appended to the path after a '?'.
	Query *Query
	// Headers override the client's default headers.
	Headers map[string]string
	// Body is serialized according to Type.
	Body any
	// Type selects the body encoding. When unset it is inferred from the
	// Content-Type header.
	Type BodyType
}

// WithPathParam binds a path placeholder.
func (o *CallOptions) WithPathParam(name, value string) *CallOptions {
	if o.Path == nil {
		o.Path = make(map[string]string)
	}
	o.Path[name] = value
	return o
}

// WithQueryParam adds a query parameter value. Repeated calls with the same
// key build a list.
func (o *CallOptions) WithQueryParam(key, value string) *CallOptions {
	if o.Query == nil {
		o.Query = NewQuery()
	}
	o.Query.Add(key, value)
	return o
}

// WithHeader sets a per-call header.
func (o *CallOptions) WithHeader(key, value string) *CallOptions {
	if o.Headers == nil {
		o.Headers = make(map[string]string)
	}
	o.Headers[key] = value
	return o
}

// WithBody sets the body and its encoding.
func (o *CallOptions) WithBody(body any, t BodyType) *CallOptions {
	o.Body = body
	o.Type = t
	return o
}

// compose runs the pure part of the pipeline: path template, URL join, query,
// headers and body. It performs no I/O.
func compose(endpoint *Endpoint, defaults http.Header, method, path string, opts *CallOptions) (*ComposedRequest, error) {
	if opts == nil {
		opts = &CallOptions{}
	}

	fullPath, err := endpoint.Compose(ResolvePath(path, opts.Path))
	if err != nil {
		return nil, err
	}
	fullPath = appendQuery(fullPath, opts.Query)

	perCall := HeaderFromMap(opts.Headers)
	encoded, err := EncodeBody(opts.Body, opts.Type, MergeHeaders(defaults, perCall, ""))
	if err != nil {
		return nil, err
	}

	var (
		body        []byte
		contentType string
	)
	if encoded != nil {
		body = encoded.Data
		contentType = encoded.ContentType
	}

	return &ComposedRequest{
		Method:   method,
		Scheme:   endpoint.Scheme,
		Hostname: endpoint.Hostname,
		Port:     endpoint.Port,
		Auth:     endpoint.Auth(),
		Path:     fullPath,
		Header:   MergeHeaders(defaults, perCall, contentType),
		Body:     body,
	}, nil
}
