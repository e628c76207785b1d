package delivery

import (
	"errors"
	"fmt"

	"flowlog/level"
)

var (
	// ErrQueueFull is returned by Deliver under the Reject policy when the
	// queue has no capacity left.
	ErrQueueFull = errors.New("delivery: queue full")

	// ErrClosed is returned by Deliver once draining has begun.
	ErrClosed = errors.New("delivery: queue closed")

	// ErrNotStarted is returned by Flush when events are queued but no
	// background task is running to drain them.
	ErrNotStarted = errors.New("delivery: background flush not started")

	// ErrDrainIncomplete is returned by Flush and Close when the context
	// ends before the drain finishes. The background task keeps draining.
	ErrDrainIncomplete = errors.New("delivery: drain incomplete")
)

// SinkError wraps a sink write failure observed by the background task,
// keeping the level of the event that failed.
type SinkError struct {
	Level level.Level
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("delivery: write %s event: %v", e.Level, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
