package delivery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"flowlog/level"
	"flowlog/render"
	"flowlog/sink"
)

func event(n int) render.Event {
	return render.Event{Level: level.Info, Bytes: []byte(strconv.Itoa(n))}
}

func quiet() func(error) { return func(error) {} }

func TestDirectDeliversImmediately(t *testing.T) {
	buf := sink.NewBuffer()
	d := NewDirect(buf)

	if err := d.Deliver(context.Background(), event(1)); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if buf.Len() != 1 {
		t.Fatal("direct delivery did not reach the sink before returning")
	}
	if err := d.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestQueueFIFOAcrossCapacityWithBackpressure(t *testing.T) {
	buf := sink.NewBuffer()
	q := NewQueue(buf, Options{Capacity: 8, Policy: Block, OnError: quiet()})
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	const n = 100 // well beyond capacity, so backpressure engages
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if err := q.Deliver(ctx, event(i)); err != nil {
			t.Fatalf("deliver %d: %v", i, err)
		}
	}
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lines := buf.Lines()
	if len(lines) != n {
		t.Fatalf("delivered %d events, want %d", len(lines), n)
	}
	for i, line := range lines {
		if line != strconv.Itoa(i) {
			t.Fatalf("event %d out of order: got %q", i, line)
		}
	}
}

func TestQueueGlobalOrderAcrossProducers(t *testing.T) {
	buf := sink.NewBuffer()
	q := NewQueue(buf, Options{Capacity: 4, OnError: quiet()})
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	var mu sync.Mutex
	var sent []string
	seq := 0

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				// Serialize the enqueue itself so the expected global
				// order is well defined.
				mu.Lock()
				payload := strconv.Itoa(seq)
				seq++
				err := q.Deliver(context.Background(), render.Event{Level: level.Info, Bytes: []byte(payload)})
				if err == nil {
					sent = append(sent, payload)
				}
				mu.Unlock()
				if err != nil {
					t.Errorf("deliver: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if err := q.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	lines := buf.Lines()
	if len(lines) != len(sent) {
		t.Fatalf("delivered %d, enqueued %d", len(lines), len(sent))
	}
	for i := range sent {
		if lines[i] != sent[i] {
			t.Fatalf("position %d: delivered %q, enqueued %q", i, lines[i], sent[i])
		}
	}
}

func TestRejectPolicyYieldsQueueFull(t *testing.T) {
	buf := sink.NewBuffer()
	q := NewQueue(buf, Options{Capacity: 2, Policy: Reject, OnError: quiet()})
	// Not started: nothing drains, so the queue fills deterministically.
	ctx := context.Background()

	if err := q.Deliver(ctx, event(0)); err != nil {
		t.Fatalf("deliver 0: %v", err)
	}
	if err := q.Deliver(ctx, event(1)); err != nil {
		t.Fatalf("deliver 1: %v", err)
	}
	if err := q.Deliver(ctx, event(2)); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("deliver 2 = %v, want ErrQueueFull", err)
	}
	if q.Len() != 2 {
		t.Fatalf("queue corrupted: len = %d, want 2", q.Len())
	}

	// The rejected caller can react and retry once space frees.
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		err := q.Deliver(ctx, event(2))
		if err == nil {
			break
		}
		if !errors.Is(err, ErrQueueFull) {
			t.Fatalf("retry = %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("queue never freed space")
		}
		time.Sleep(time.Millisecond)
	}
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if buf.Len() != 3 {
		t.Fatalf("delivered %d events, want 3", buf.Len())
	}
}

func TestBlockPolicyHonorsContext(t *testing.T) {
	q := NewQueue(sink.NewBuffer(), Options{Capacity: 1, Policy: Block, OnError: quiet()})
	ctx := context.Background()
	if err := q.Deliver(ctx, event(0)); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	timed, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := q.Deliver(timed, event(1))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("blocked deliver = %v, want deadline exceeded", err)
	}
}

func TestFlushIsACutPoint(t *testing.T) {
	release := make(chan struct{})
	gate := &gatedSink{buf: sink.NewBuffer(), release: release}
	q := NewQueue(gate, Options{Capacity: 16, OnError: quiet()})
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := q.Deliver(ctx, event(i)); err != nil {
			t.Fatalf("deliver: %v", err)
		}
	}

	flushed := make(chan error, 1)
	go func() { flushed <- q.Flush(ctx) }()

	select {
	case err := <-flushed:
		t.Fatalf("flush returned before events were written: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if err := <-flushed; err != nil {
		t.Fatalf("flush: %v", err)
	}
	if gate.buf.Len() != 5 {
		t.Fatalf("flush returned with %d of 5 events written", gate.buf.Len())
	}
}

func TestFlushTimeoutReportsDrainIncomplete(t *testing.T) {
	release := make(chan struct{})
	gate := &gatedSink{buf: sink.NewBuffer(), release: release}
	q := NewQueue(gate, Options{Capacity: 16, OnError: quiet()})
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_ = q.Deliver(context.Background(), event(0))

	timed, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Flush(timed); !errors.Is(err, ErrDrainIncomplete) {
		t.Fatalf("flush = %v, want ErrDrainIncomplete", err)
	}

	// The background task was not stopped by the timed-out flush.
	close(release)
	if err := q.Flush(context.Background()); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if q.State() != StateRunning {
		t.Fatalf("state = %v, want running", q.State())
	}
}

func TestSinkFailureDoesNotWedgePipeline(t *testing.T) {
	buf := sink.NewBuffer()
	bad := &failNth{next: buf, fail: 1}
	q := NewQueue(bad, Options{Capacity: 8, OnError: quiet()})
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := q.Deliver(ctx, event(i)); err != nil {
			t.Fatalf("deliver: %v", err)
		}
	}
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lines := buf.Lines()
	if len(lines) != 2 || lines[0] != "0" || lines[1] != "2" {
		t.Fatalf("surviving events = %v, want [0 2]", lines)
	}

	select {
	case err := <-q.Errors():
		var sinkErr *SinkError
		if !errors.As(err, &sinkErr) {
			t.Fatalf("error channel got %T, want *SinkError", err)
		}
		if sinkErr.Level != level.Info {
			t.Fatalf("sink error level = %v", sinkErr.Level)
		}
	default:
		t.Fatal("sink failure not surfaced on error channel")
	}
}

func TestCloseDrainsAndStops(t *testing.T) {
	buf := sink.NewBuffer()
	q := NewQueue(buf, Options{Capacity: 32, OnError: quiet()})
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx := context.Background()
	const n = 20
	for i := 0; i < n; i++ {
		if err := q.Deliver(ctx, event(i)); err != nil {
			t.Fatalf("deliver: %v", err)
		}
	}
	if err := q.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	if q.State() != StateStopped {
		t.Fatalf("state = %v, want stopped", q.State())
	}
	if q.Len() != 0 {
		t.Fatalf("queue length = %d after close, want 0", q.Len())
	}
	if buf.Len() != n {
		t.Fatalf("delivered %d of %d events", buf.Len(), n)
	}

	if err := q.Deliver(ctx, event(99)); !errors.Is(err, ErrClosed) {
		t.Fatalf("deliver after close = %v, want ErrClosed", err)
	}
	// Close is idempotent.
	if err := q.Close(ctx); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestCloseIdleQueueDrainsInline(t *testing.T) {
	buf := sink.NewBuffer()
	q := NewQueue(buf, Options{Capacity: 8, OnError: quiet()})
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if err := q.Deliver(ctx, event(i)); err != nil {
			t.Fatalf("deliver: %v", err)
		}
	}

	if err := q.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if q.State() != StateStopped {
		t.Fatalf("state = %v, want stopped", q.State())
	}
	if buf.Len() != 4 {
		t.Fatalf("delivered %d of 4 buffered events", buf.Len())
	}
}

func TestStartTwiceFails(t *testing.T) {
	q := NewQueue(sink.NewBuffer(), Options{OnError: quiet()})
	if err := q.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := q.Start(); err == nil {
		t.Fatal("expected second start to fail")
	}
}

func TestFlushIdleQueue(t *testing.T) {
	q := NewQueue(sink.NewBuffer(), Options{OnError: quiet()})
	if err := q.Flush(context.Background()); err != nil {
		t.Fatalf("flush of empty idle queue: %v", err)
	}
	if err := q.Deliver(context.Background(), event(0)); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := q.Flush(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("flush = %v, want ErrNotStarted", err)
	}
}

type gatedSink struct {
	buf     *sink.Buffer
	release chan struct{}
	opened  bool
}

func (g *gatedSink) Write(ev render.Event) error {
	if !g.opened {
		<-g.release
		g.opened = true
	}
	return g.buf.Write(ev)
}

type failNth struct {
	next sink.Sink
	fail int
	seen int
}

func (f *failNth) Write(ev render.Event) error {
	n := f.seen
	f.seen++
	if n == f.fail {
		return fmt.Errorf("simulated disk failure on event %d", n)
	}
	return f.next.Write(ev)
}
