package sink

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"flowlog/level"
	"flowlog/render"
)

// Sink accepts rendered events. Write appends the event payload as one line
// and reports I/O failures to the caller; it is invoked from exactly one
// execution path at a time per logger instance.
type Sink interface {
	Write(ev render.Event) error
}

type writerSink struct {
	w io.Writer
}

// Writer wraps an io.Writer as a sink. Each event is written as the payload
// followed by a newline.
func Writer(w io.Writer) Sink { return &writerSink{w: w} }

func (s *writerSink) Write(ev render.Event) error {
	if _, err := s.w.Write(append(ev.Bytes, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Stdout returns a sink writing to standard output.
func Stdout() Sink { return Writer(os.Stdout) }

// Stderr returns a sink writing to standard error.
func Stderr() Sink { return Writer(os.Stderr) }

// Discard returns a sink that drops every event.
func Discard() Sink { return discard{} }

type discard struct{}

func (discard) Write(render.Event) error { return nil }

// Buffer is an in-memory sink for tests and capture use. Unlike production
// sinks it locks internally so tests can inspect it while a background
// flush task is still writing.
type Buffer struct {
	mu     sync.Mutex
	events []render.Event
}

// NewBuffer returns an empty capture buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Write implements Sink.
func (b *Buffer) Write(ev render.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := ev
	cp.Bytes = append([]byte(nil), ev.Bytes...)
	b.events = append(b.events, cp)
	return nil
}

// Events returns a copy of everything written so far.
func (b *Buffer) Events() []render.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]render.Event, len(b.events))
	copy(out, b.events)
	return out
}

// Lines returns the written payloads as strings, in write order.
func (b *Buffer) Lines() []string {
	events := b.Events()
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = string(ev.Bytes)
	}
	return lines
}

// Len returns the number of events written so far.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Reset drops all captured events.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Multi fans an event out to every sink, returning the first write error
// after attempting all of them.
func Multi(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	switch len(filtered) {
	case 0:
		return Discard()
	case 1:
		return filtered[0]
	}
	return multiSink{sinks: filtered}
}

type multiSink struct {
	sinks []Sink
}

func (m multiSink) Write(ev render.Event) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Write(ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Filtered wraps a sink so only events at or above min are written.
func Filtered(s Sink, min level.Level) Sink {
	return filteredSink{next: s, min: min}
}

type filteredSink struct {
	next Sink
	min  level.Level
}

func (f filteredSink) Write(ev render.Event) error {
	if !ev.Level.Enabled(f.min) {
		return nil
	}
	return f.next.Write(ev)
}

// Open resolves destination names into a single sink. "stdout" and "stderr"
// map to the process streams, anything else is opened as an append file.
// Duplicate destinations are opened once; multiple destinations fan out.
func Open(destinations ...string) (Sink, error) {
	seen := map[string]struct{}{}
	var sinks []Sink
	for _, dest := range destinations {
		trimmed := strings.TrimSpace(dest)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			sinks = append(sinks, Stdout())
		case "stderr":
			sinks = append(sinks, Stderr())
		default:
			f, err := NewFile(trimmed, FileOptions{})
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, f)
		}
	}
	if len(sinks) == 0 {
		return Stdout(), nil
	}
	return Multi(sinks...), nil
}
