// Package sink provides the write targets for rendered log events.
//
// A Sink accepts one rendered event at a time; the delivery subsystem
// guarantees it is only ever called from a single execution path per logger,
// so implementations do not lock. Open resolves the conventional "stdout",
// "stderr", and file-path destinations into a single de-duplicated fan-out
// sink. The file sink appends, creates parent directories, and can hold an
// advisory flock so concurrent processes logging to the same file do not
// interleave partial lines.
package sink
