package render

import (
	"flowlog/level"
	"flowlog/record"
)

// Event is a rendered log line plus the originating level, kept so sinks
// can filter without reparsing the payload. Once produced, an event has no
// back-reference to its record and is owned by the delivery subsystem.
type Event struct {
	Level level.Level
	Bytes []byte
}

// Formatter renders a record into an event. Implementations must be safe
// for concurrent use and must not retain the record.
type Formatter interface {
	Format(rec record.Record) Event
}

// Options holds the knobs shared by the built-in formatters.
type Options struct {
	// Colors enables ANSI styling in the pretty format.
	Colors bool
	// Timestamps prepends the record time.
	Timestamps bool
	// ShowDate includes the date in timestamps.
	ShowDate bool
	// ShowScope includes the dotted scope path.
	ShowScope bool
	// BoldSubtitles renders subtitles bold in the pretty format.
	BoldSubtitles bool
	// IndentSize is the spaces per nesting level in the compact format.
	IndentSize int
	// MaxWidth truncates pretty output to this display width; 0 disables.
	MaxWidth int
}

// DefaultOptions mirrors the zero-config defaults of the pretty console
// format: timestamps on, date off, bold subtitles, two-space indent.
func DefaultOptions() Options {
	return Options{
		Timestamps:    true,
		BoldSubtitles: true,
		IndentSize:    2,
	}
}
