package delivery

import (
	"context"
	"sync"

	"flowlog/render"
	"flowlog/sink"
)

// Deliverer hands rendered events to a sink, immediately or via a buffer.
// A nil error from Deliver means "delivered" for the direct path and
// "accepted for eventual delivery" for the queued path.
type Deliverer interface {
	Deliver(ctx context.Context, ev render.Event) error
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// Direct writes every event on the caller's execution path. The caller
// blocks until the sink accepts the bytes and sees I/O failures directly.
type Direct struct {
	mu sync.Mutex
	s  sink.Sink
}

// NewDirect builds a synchronous deliverer over the sink.
func NewDirect(s sink.Sink) *Direct {
	return &Direct{s: s}
}

// Deliver implements Deliverer. The mutex upholds the contract that the
// sink is called from one execution path at a time.
func (d *Direct) Deliver(_ context.Context, ev render.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.s.Write(ev)
}

// Flush implements Deliverer. Direct delivery has nothing buffered.
func (d *Direct) Flush(context.Context) error { return nil }

// Close implements Deliverer.
func (d *Direct) Close(context.Context) error { return nil }
