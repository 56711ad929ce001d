package http

import (
	"context"
	"net/http/httptrace"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingGetters(t *testing.T) {
	resp := &Response{
		Timing: TimingInfo{
			DNSLookupTime:       10 * time.Millisecond,
			TCPConnectTime:      20 * time.Millisecond,
			TLSHandshakeTime:    30 * time.Millisecond,
			TimeToFirstByte:     40 * time.Millisecond,
			ContentTransferTime: 50 * time.Millisecond,
			TotalTime:           150 * time.Millisecond,
		},
		ResponseTime: 150 * time.Millisecond,
	}

	assert.EqualValues(t, 10, resp.GetDNSLookupTimeMillis())
	assert.EqualValues(t, 20, resp.GetTCPConnectTimeMillis())
	assert.EqualValues(t, 30, resp.GetTLSHandshakeTimeMillis())
	assert.EqualValues(t, 40, resp.GetTimeToFirstByteMillis())
	assert.EqualValues(t, 50, resp.GetContentTransferTimeMillis())
	assert.EqualValues(t, 150, resp.GetTotalTimeMillis())
	assert.EqualValues(t, 150, resp.GetResponseTimeMillis())
}

func TestTimingTrace(t *testing.T) {
	timing := TimingInfo{StartTime: time.Now()}
	ctx := timingTrace(context.Background(), &timing)

	trace := httptrace.ContextClientTrace(ctx)
	require.NotNil(t, trace)

	trace.ConnectStart("tcp", "127.0.0.1:80")
	time.Sleep(2 * time.Millisecond)
	trace.ConnectDone("tcp", "127.0.0.1:80", nil)
	trace.GotFirstResponseByte()

	assert.GreaterOrEqual(t, timing.TCPConnectTime, 2*time.Millisecond)
	assert.Zero(t, timing.DNSLookupTime)
	assert.Zero(t, timing.TLSHandshakeTime)
	assert.Less(t, timing.TimeToFirstByte, time.Second)
}
