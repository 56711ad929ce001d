package http

import "context"

// Future is the pending result of a call started with Client.Go.
type Future struct {
	done chan struct{}
	resp *Response
	err  error
}

// Go starts a call in a new goroutine and returns immediately. The result,
// including local validation errors, is delivered through the Future.
func (c *Client) Go(ctx context.Context, method, path string, opts *CallOptions) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.resp, f.err = c.Call(ctx, method, path, opts)
	}()
	return f
}

// Done is closed when the call has completed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call completes and returns its result.
func (f *Future) Wait() (*Response, error) {
	<-f.done
	return f.resp, f.err
}
