package http

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// EventKind identifies the point in a call an Event was emitted from.
type EventKind int

const (
	// EventRequest is emitted after a request is composed, before dispatch.
	EventRequest EventKind = iota
	// EventResponse is emitted when a response was resolved, including non-2xx.
	EventResponse
	// EventError is emitted when a call fails without a response.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventRequest:
		return "request"
	case EventResponse:
		return "response"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event carries diagnostics for one step of one call.
type Event struct {
	Kind     EventKind
	Request  *ComposedRequest
	Response *Response
	Err      error
	Duration time.Duration
}

// Observer receives call diagnostics. Observe is called synchronously from
// the goroutine running the call and must be safe for concurrent use.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// MultiObserver fans events out to each non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	var list []Observer
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nopObserver{}
	case 1:
		return list[0]
	}
	return ObserverFunc(func(e Event) {
		for _, o := range list {
			o.Observe(e)
		}
	})
}

// NewLogObserver returns an Observer that writes events to logger. Requests
// and successful responses are logged at debug level, failures at warn.
func NewLogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(e Event) {
		attrs := []slog.Attr{slog.String("event", e.Kind.String())}
		if e.Request != nil {
			attrs = append(attrs,
				slog.String("method", e.Request.Method),
				slog.String("url", e.Request.URL()),
			)
		}
		if e.Response != nil {
			attrs = append(attrs, slog.Int("status", e.Response.StatusCode))
		}
		if e.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", e.Duration))
		}

		level := slog.LevelDebug
		if e.Err != nil {
			attrs = append(attrs, slog.String("error", e.Err.Error()))
			var callErr *Error
			if errors.As(e.Err, &callErr) {
				attrs = append(attrs, slog.String("kind", callErr.Kind.String()))
			}
			level = slog.LevelWarn
		}
		logger.LogAttrs(context.Background(), level, "http call", attrs...)
	})
}
