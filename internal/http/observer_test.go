package http

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiObserver(t *testing.T) {
	var got []string
	record := func(name string) Observer {
		return ObserverFunc(func(e Event) {
			got = append(got, name+":"+e.Kind.String())
		})
	}

	MultiObserver(record("a"), nil, record("b")).Observe(Event{Kind: EventResponse})
	assert.Equal(t, []string{"a:response", "b:response"}, got)

	assert.Equal(t, nopObserver{}, MultiObserver(nil))
}

func TestNewLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client, err := NewClient("http://localhost:8080",
		WithTransport(&stubTransport{status: 404}),
		WithObserver(NewLogObserver(logger)),
	)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/missing", nil)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "event=request")
	assert.Contains(t, out, "url=http://localhost:8080/missing")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, `kind="http status error"`)
}

func TestNewLogObserver_DebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewLogObserver(logger).Observe(Event{Kind: EventResponse, Duration: time.Millisecond})
	assert.Empty(t, buf.String())
}
