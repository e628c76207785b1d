// Package delivery moves rendered events from log calls to a sink.
//
// Two deliverers share one interface. Direct writes on the caller's path and
// returns once the sink has accepted the bytes. Queue decouples callers from
// sink latency with a bounded channel drained by a single background task;
// events reach the sink in global enqueue order regardless of which producer
// enqueued them. Flush enqueues a marker and waits for it, so it completes
// exactly when everything enqueued before the call has been written.
//
// A queue moves Idle -> Running -> Draining -> Stopped. Once draining
// begins, new enqueues fail with ErrClosed; everything already queued is
// still delivered. A sink failure during the drain loop is surfaced through
// the error observer and the Errors channel and never stops the loop.
package delivery
