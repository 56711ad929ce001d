package http

import (
	"github.com/wesleyorama2/restcall/internal/http"
)

type (
	// Client composes requests against a base URL and resolves responses.
	Client = http.Client
	// ClientOption configures a Client.
	ClientOption = http.ClientOption
	// CallOptions holds the variable parts of one call.
	CallOptions = http.CallOptions
	// Query is an ordered multi-valued query.
	Query = http.Query
	// BodyType selects how a request body is serialized.
	BodyType = http.BodyType
	// Response is a resolved response.
	Response = http.Response
	// TimingInfo breaks down where the time of a call went.
	TimingInfo = http.TimingInfo
	// Error is the error type of every failed call.
	Error = http.Error
	// ErrorKind classifies an Error.
	ErrorKind = http.ErrorKind
	// Future is the pending result of Client.Go.
	Future = http.Future
	// Transport performs one request/response exchange.
	Transport = http.Transport
	// ComposedRequest is a fully built request.
	ComposedRequest = http.ComposedRequest
	// RawResponse is what a Transport returns.
	RawResponse = http.RawResponse
	// Observer receives call diagnostics.
	Observer = http.Observer
	// ObserverFunc adapts a function to Observer.
	ObserverFunc = http.ObserverFunc
	// Event is one call diagnostic.
	Event = http.Event
)

const (
	BodyTypeUnset = http.BodyTypeUnset
	BodyTypeJSON  = http.BodyTypeJSON
	BodyTypeForm  = http.BodyTypeForm

	KindInvalidArgument   = http.KindInvalidArgument
	KindTransport         = http.KindTransport
	KindHTTPStatus        = http.KindHTTPStatus
	KindMalformedResponse = http.KindMalformedResponse

	EventRequest  = http.EventRequest
	EventResponse = http.EventResponse
	EventError    = http.EventError
)

var (
	ErrInvalidArgument   = http.ErrInvalidArgument
	ErrTransport         = http.ErrTransport
	ErrHTTPStatus        = http.ErrHTTPStatus
	ErrMalformedResponse = http.ErrMalformedResponse
)

var (
	// NewClient creates a client for an absolute http or https base URL.
	NewClient = http.NewClient
	// NewQuery returns an empty Query.
	NewQuery = http.NewQuery
	// ParseBodyType parses "json", "form" or "".
	ParseBodyType = http.ParseBodyType
	// NewNetTransport returns the net/http backed Transport.
	NewNetTransport = http.NewNetTransport
	// NewLogObserver logs call diagnostics to a slog.Logger.
	NewLogObserver = http.NewLogObserver
	// MultiObserver fans events out to several observers.
	MultiObserver = http.MultiObserver

	WithTimeout            = http.WithTimeout
	WithHeader             = http.WithHeader
	WithHeaders            = http.WithHeaders
	WithTransport          = http.WithTransport
	WithHTTPClient         = http.WithHTTPClient
	WithInsecureSkipVerify = http.WithInsecureSkipVerify
	WithObserver           = http.WithObserver
	WithRequestIDHeader    = http.WithRequestIDHeader
)
