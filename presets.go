package flowlog

import (
	"os"

	"flowlog/internal/term"
	"flowlog/level"
	"flowlog/render"
	"flowlog/sink"
)

// Pretty returns options for human-readable output on stdout: info level,
// timestamps, color when stdout is a terminal.
func Pretty() Options {
	opts := render.DefaultOptions()
	opts.Colors = term.IsTerminal(os.Stdout)
	return Options{
		Level:     level.Info,
		Formatter: render.NewPretty(opts),
		Sink:      sink.Stdout(),
	}
}

// Compact returns options for dense single-line output on stdout.
func Compact() Options {
	opts := render.DefaultOptions()
	opts.Colors = term.IsTerminal(os.Stdout)
	opts.BoldSubtitles = false
	return Options{
		Level:     level.Info,
		Formatter: render.NewCompact(opts),
		Sink:      sink.Stdout(),
	}
}

// JSON returns options for machine-readable output on stdout, one JSON
// object per line.
func JSON() Options {
	return Options{
		Level:     level.Info,
		Formatter: render.NewJSON(),
		Sink:      sink.Stdout(),
	}
}

// Dev returns options tuned for local development: trace level, pretty
// output with dates and scope paths shown.
func Dev() Options {
	opts := render.DefaultOptions()
	opts.Colors = term.IsTerminal(os.Stdout)
	opts.ShowDate = true
	opts.ShowScope = true
	return Options{
		Level:     level.Trace,
		Formatter: render.NewPretty(opts),
		Sink:      sink.Stdout(),
	}
}
