package http

import "fmt"

// ErrorKind classifies an Error.
type ErrorKind int

const (
	// KindInvalidArgument is a local validation failure raised before any I/O.
	KindInvalidArgument ErrorKind = iota + 1
	// KindTransport means the transport could not complete the exchange.
	KindTransport
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindMalformedResponse means the body of a 2xx response could not be
	// decoded or parsed.
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindTransport:
		return "transport error"
	case KindHTTPStatus:
		return "http status error"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument, Message: KindInvalidArgument.String()}
	ErrTransport         = &Error{Kind: KindTransport, Message: KindTransport.String()}
	ErrHTTPStatus        = &Error{Kind: KindHTTPStatus, Message: KindHTTPStatus.String()}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse, Message: KindMalformedResponse.String()}
)

// Error is the error type returned by Client calls.
//
// Response is set for KindHTTPStatus and KindMalformedResponse so the caller
// can inspect the status code and body. It is nil for the other kinds.
type Error struct {
	Kind     ErrorKind
	Message  string
	Response *Response
	Err      error
}

// Error returns the message unchanged.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// StatusCode returns the status of the attached response, or 0.
func (e *Error) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

func invalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}
