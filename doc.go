// Package flowlog renders hierarchical, contextual log events to one or
// more sinks, synchronously or through a buffered background path.
//
// A Logger gates records by level and scope filters, snapshots the current
// scope from the caller's context, renders through a Formatter, and hands
// the result to a delivery path. With the default synchronous delivery a
// nil error from a log call means the sink accepted the bytes; with async
// delivery enabled it means the event was accepted for eventual delivery,
// and Flush or Close provide the point at which acceptance becomes
// delivery.
//
// Scopes nest through context.Context:
//
//	ctx, sc := logger.BeginScope(ctx, "encode", fields.String("disc", id))
//	defer sc.End()
//	logger.Info(ctx, "starting pass")
//
// Log calls made with ctx inherit the scope's fields and render with one
// extra nesting level; code holding the previous context is unaffected.
package flowlog
