package render

import (
	"bytes"
	"strings"

	"flowlog/record"
)

// Compact renders records as dense single-character-level lines:
// "15:04:05 I   message k=v". Nesting is expressed with plain spaces.
type Compact struct {
	opts Options
}

// NewCompact builds a compact formatter with the given options.
func NewCompact(opts Options) *Compact {
	if opts.IndentSize <= 0 {
		opts.IndentSize = 2
	}
	return &Compact{opts: opts}
}

// Format implements Formatter.
func (c *Compact) Format(rec record.Record) Event {
	var buf bytes.Buffer
	buf.Grow(64)

	if c.opts.Timestamps {
		layout := "15:04:05"
		if c.opts.ShowDate {
			layout = "2006-01-02 15:04:05"
		}
		buf.WriteString(rec.Time.Format(layout))
		buf.WriteByte(' ')
	}

	buf.WriteString(rec.Level.Char())
	buf.WriteByte(' ')

	if depth := rec.Depth(); depth > 0 {
		buf.WriteString(strings.Repeat(" ", depth*c.opts.IndentSize))
	}

	if rec.Subtitle != "" {
		buf.WriteString(rec.Subtitle)
		buf.WriteString(": ")
	}
	buf.WriteString(rec.Message)

	for _, f := range rec.EffectiveFields().All() {
		buf.WriteByte(' ')
		buf.WriteString(f.Key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(f.Value))
	}

	return Event{Level: rec.Level, Bytes: buf.Bytes()}
}
