// Package render turns immutable log records into the byte payloads
// consumed by sinks.
//
// A Formatter is a pure function over a record: it may not retain or mutate
// its input and holds no mutable state of its own, so one formatter instance
// is safe to share across producers. Three formats are provided: Pretty for
// terminals (colors, nesting markers, inline field block), Compact for dense
// single-character-level output, and JSON for machine consumption. Output
// lines carry no trailing newline; sinks add it on write.
package render
