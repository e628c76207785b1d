// Package record defines the immutable log record handed to formatters.
//
// A Record snapshots everything at the moment of the log call: timestamp,
// level, message, optional subtitle, the explicit field overlay, and the
// scope visible in the caller's context. Because the snapshot is taken at
// call time rather than delivery time, records queued by the async path
// render with the scope and fields that were current when they were logged.
package record
