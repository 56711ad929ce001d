package http

import (
	"context"
	"crypto/tls"
	"net/http/httptrace"
	"time"
)

// TimingInfo holds the phases of a single round trip.
type TimingInfo struct {
	StartTime           time.Time
	DNSLookupTime       time.Duration
	TCPConnectTime      time.Duration
	TLSHandshakeTime    time.Duration
	TimeToFirstByte     time.Duration
	ContentTransferTime time.Duration
	TotalTime           time.Duration
}

// timingTrace records connection phases into timing as the request runs.
func timingTrace(ctx context.Context, timing *TimingInfo) context.Context {
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var connectDone bool

	// TTFB is measured from the end of the last completed phase.
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			now := time.Now()
			timing.DNSLookupTime = now.Sub(dnsStart)
			lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err != nil {
				return
			}
			now := time.Now()
			timing.TCPConnectTime = now.Sub(connectStart)
			connectDone = true
			lastPhaseEnd = now
		},
		TLSHandshakeStart: func() {
			tlsHandshakeStart = time.Now()
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err != nil || !connectDone {
				return
			}
			now := time.Now()
			timing.TLSHandshakeTime = now.Sub(tlsHandshakeStart)
			lastPhaseEnd = now
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}

	return httptrace.WithClientTrace(ctx, trace)
}

// GetDNSLookupTimeMillis returns the DNS lookup time in milliseconds
func (r *Response) GetDNSLookupTimeMillis() int64 {
	return r.Timing.DNSLookupTime.Milliseconds()
}

// GetTCPConnectTimeMillis returns the TCP connection time in milliseconds
func (r *Response) GetTCPConnectTimeMillis() int64 {
	return r.Timing.TCPConnectTime.Milliseconds()
}

// GetTLSHandshakeTimeMillis returns the TLS handshake time in milliseconds
func (r *Response) GetTLSHandshakeTimeMillis() int64 {
	return r.Timing.TLSHandshakeTime.Milliseconds()
}

// GetTimeToFirstByteMillis returns the time to first byte in milliseconds
func (r *Response) GetTimeToFirstByteMillis() int64 {
	return r.Timing.TimeToFirstByte.Milliseconds()
}

// GetContentTransferTimeMillis returns the content transfer time in milliseconds
func (r *Response) GetContentTransferTimeMillis() int64 {
	return r.Timing.ContentTransferTime.Milliseconds()
}

// GetTotalTimeMillis returns the total request time in milliseconds
func (r *Response) GetTotalTimeMillis() int64 {
	return r.Timing.TotalTime.Milliseconds()
}
