// Package bench issues the same call repeatedly and summarizes latency and
// outcomes.
package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wesleyorama2/restcall/internal/http"
)

const (
	histogramMin     = 1             // 1µs
	histogramMax     = 3_600_000_000 // 1h in µs
	histogramSigFigs = 3
)

// Caller is the part of *http.Client used by Run.
type Caller interface {
	Call(ctx context.Context, method, path string, opts *http.CallOptions) (*http.Response, error)
}

// Plan describes a benchmark run.
type Plan struct {
	Method  string
	Path    string
	Options *http.CallOptions
	// Requests is the total number of calls to issue.
	Requests int
	// Concurrency bounds the calls in flight. Defaults to 1.
	Concurrency int
	// Rate limits calls per second. Zero means unlimited.
	Rate float64
}

// Report summarizes a finished run.
type Report struct {
	Requests        int64
	Succeeded       int64
	StatusErrors    int64
	TransportErrors int64
	OtherErrors     int64
	StatusCounts    map[int]int64
	Duration        time.Duration

	Min  time.Duration
	Mean time.Duration
	P50  time.Duration
	P90  time.Duration
	P99  time.Duration
	Max  time.Duration
}

// Throughput returns completed calls per second.
func (r *Report) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Duration.Seconds()
}

// ErrorRate returns the fraction of calls that did not succeed.
func (r *Report) ErrorRate() float64 {
	if r.Requests == 0 {
		return 0
	}
	return float64(r.Requests-r.Succeeded) / float64(r.Requests)
}

type recorder struct {
	mu     sync.Mutex
	hist   *hdrhistogram.Histogram
	report Report
}

func (r *recorder) record(latency time.Duration, resp *http.Response, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	micros := latency.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	_ = r.hist.RecordValue(micros)

	r.report.Requests++
	if resp != nil {
		r.report.StatusCounts[resp.StatusCode]++
	}

	switch {
	case err == nil:
		r.report.Succeeded++
	case errors.Is(err, http.ErrHTTPStatus):
		r.report.StatusErrors++
	case errors.Is(err, http.ErrTransport):
		r.report.TransportErrors++
	default:
		r.report.OtherErrors++
	}
}

// Run issues plan.Requests calls through c. Call failures are counted in the
// report; Run itself only fails on an invalid plan or when ctx is cancelled.
func Run(ctx context.Context, c Caller, plan Plan) (*Report, error) {
	if plan.Requests <= 0 {
		return nil, fmt.Errorf("requests must be positive, got %d", plan.Requests)
	}
	if plan.Rate < 0 {
		return nil, fmt.Errorf("rate must not be negative, got %v", plan.Rate)
	}
	concurrency := plan.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var limiter *rate.Limiter
	if plan.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(plan.Rate), 1)
	}

	rec := &recorder{
		hist:   hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		report: Report{StatusCounts: make(map[int]int64)},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	start := time.Now()
	for i := 0; i < plan.Requests; i++ {
		if limiter != nil {
			if err := limiter.Wait(gctx); err != nil {
				break
			}
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			callStart := time.Now()
			resp, err := c.Call(gctx, plan.Method, plan.Path, plan.Options)
			rec.record(time.Since(callStart), resp, err)
			return nil
		})
	}
	_ = g.Wait()

	report := rec.report
	report.Duration = time.Since(start)
	if err := ctx.Err(); err != nil {
		return &report, err
	}

	if rec.hist.TotalCount() > 0 {
		report.Min = micros(rec.hist.Min())
		report.Mean = micros(int64(rec.hist.Mean()))
		report.P50 = micros(rec.hist.ValueAtQuantile(50))
		report.P90 = micros(rec.hist.ValueAtQuantile(90))
		report.P99 = micros(rec.hist.ValueAtQuantile(99))
		report.Max = micros(rec.hist.Max())
	}
	return &report, nil
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
