package delivery

import (
	"context"
	"fmt"
	"os"
	"sync"

	"flowlog/render"
	"flowlog/sink"
)

// DefaultCapacity is the queue size used when options leave it unset.
const DefaultCapacity = 100

// Policy selects what Deliver does when the queue is full.
type Policy int8

const (
	// Block suspends the caller until space frees or its context ends.
	Block Policy = iota
	// Reject fails the call with ErrQueueFull.
	Reject
)

// String returns the config token for the policy.
func (p Policy) String() string {
	if p == Reject {
		return "reject"
	}
	return "block"
}

// State is the lifecycle phase of a Queue.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options configures a Queue.
type Options struct {
	// Capacity bounds the number of buffered events. Defaults to
	// DefaultCapacity.
	Capacity int
	// Policy governs full-queue behavior. Defaults to Block.
	Policy Policy
	// OnError observes sink write failures from the background task. When
	// nil, failures are written as single lines to stderr. Failures are
	// additionally available on the Errors channel either way.
	OnError func(error)
}

type envelope struct {
	ev    render.Event
	flush chan struct{}
}

// Queue is the asynchronous deliverer: a bounded FIFO drained by at most
// one background task.
type Queue struct {
	s       sink.Sink
	policy  Policy
	onError func(error)

	mu      sync.RWMutex
	state   State
	senders sync.WaitGroup

	ch      chan envelope
	drainCh chan struct{}
	done    chan struct{}
	errs    chan error
}

// NewQueue builds a queue over the sink. The queue starts Idle; events may
// be enqueued immediately but nothing is written until Start.
func NewQueue(s sink.Sink, opts Options) *Queue {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	onError := opts.OnError
	if onError == nil {
		onError = func(err error) {
			fmt.Fprintln(os.Stderr, "flowlog:", err)
		}
	}
	return &Queue{
		s:       s,
		policy:  opts.Policy,
		onError: onError,
		ch:      make(chan envelope, capacity),
		drainCh: make(chan struct{}),
		done:    make(chan struct{}),
		errs:    make(chan error, 16),
	}
}

// Start launches the background flush task. Only an Idle queue can start;
// there is never more than one consumer.
func (q *Queue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state != StateIdle {
		return fmt.Errorf("delivery: start from state %s", q.state)
	}
	q.state = StateRunning
	go q.run()
	return nil
}

func (q *Queue) run() {
	for env := range q.ch {
		if env.flush != nil {
			close(env.flush)
			continue
		}
		if err := q.s.Write(env.ev); err != nil {
			q.report(&SinkError{Level: env.ev.Level, Err: err})
		}
	}
	q.mu.Lock()
	q.state = StateStopped
	q.mu.Unlock()
	close(q.done)
}

// Deliver implements Deliverer. A nil return means the event was accepted
// for eventual delivery, not that it has reached the sink. Under Block the
// call suspends while the queue is full until space frees, draining begins,
// or ctx ends; under Reject a full queue yields ErrQueueFull immediately.
func (q *Queue) Deliver(ctx context.Context, ev render.Event) error {
	q.mu.RLock()
	if q.state == StateDraining || q.state == StateStopped {
		q.mu.RUnlock()
		return ErrClosed
	}
	q.senders.Add(1)
	q.mu.RUnlock()
	defer q.senders.Done()

	env := envelope{ev: ev}
	if q.policy == Reject {
		select {
		case q.ch <- env:
			return nil
		default:
			return ErrQueueFull
		}
	}
	select {
	case q.ch <- env:
		return nil
	case <-q.drainCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush implements Deliverer. It completes once every event enqueued
// strictly before the call has been written to the sink; events enqueued
// concurrently or later are not waited for. On a Draining queue it waits
// for the full drain. If ctx ends first the caller gets ErrDrainIncomplete
// while the background task keeps draining.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.RLock()
	switch q.state {
	case StateStopped:
		q.mu.RUnlock()
		return nil
	case StateDraining:
		q.mu.RUnlock()
		return q.waitDone(ctx)
	case StateIdle:
		buffered := len(q.ch)
		q.mu.RUnlock()
		if buffered == 0 {
			return nil
		}
		return ErrNotStarted
	}
	q.senders.Add(1)
	q.mu.RUnlock()

	marker := envelope{flush: make(chan struct{})}
	select {
	case q.ch <- marker:
		q.senders.Done()
	case <-q.drainCh:
		q.senders.Done()
		return q.waitDone(ctx)
	case <-ctx.Done():
		q.senders.Done()
		return fmt.Errorf("%w: %v", ErrDrainIncomplete, ctx.Err())
	}

	select {
	case <-marker.flush:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrDrainIncomplete, ctx.Err())
	}
}

// Close implements Deliverer. It moves the queue to Draining, delivers
// everything already enqueued, and returns once the background task has
// stopped. New Deliver calls fail with ErrClosed as soon as draining
// begins. Closing an Idle queue drains any buffered events inline so no
// accepted event is lost.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	switch q.state {
	case StateStopped:
		q.mu.Unlock()
		return nil
	case StateDraining:
		q.mu.Unlock()
		return q.waitDone(ctx)
	case StateIdle:
		q.state = StateDraining
		q.mu.Unlock()
		close(q.drainCh)
		q.senders.Wait()
		close(q.ch)
		q.run()
		return nil
	default: // StateRunning
		q.state = StateDraining
		q.mu.Unlock()
		close(q.drainCh)
		q.senders.Wait()
		close(q.ch)
		return q.waitDone(ctx)
	}
}

func (q *Queue) waitDone(ctx context.Context) error {
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrDrainIncomplete, ctx.Err())
	}
}

func (q *Queue) report(err error) {
	q.onError(err)
	select {
	case q.errs <- err:
	default:
		// Channel full: drop the oldest pending notification so the most
		// recent failure is always observable.
		select {
		case <-q.errs:
		default:
		}
		select {
		case q.errs <- err:
		default:
		}
	}
}

// Errors exposes sink write failures observed by the background task. The
// channel is buffered; when nobody consumes it, the oldest notifications
// are dropped after the error observer has seen them.
func (q *Queue) Errors() <-chan error { return q.errs }

// State reports the queue's lifecycle phase.
func (q *Queue) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state
}

// Len reports how many events are currently buffered.
func (q *Queue) Len() int { return len(q.ch) }

// Capacity reports the configured queue bound.
func (q *Queue) Capacity() int { return cap(q.ch) }
