package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"flowlog/fields"
	"flowlog/level"
	"flowlog/record"
)

// Pretty renders records for human eyes: dimmed timestamp, bracketed
// colored level, bold subtitle, "│ " markers per nesting level, and an
// inline {k=v, ...} field block.
type Pretty struct {
	opts Options
}

// NewPretty builds a pretty formatter with the given options.
func NewPretty(opts Options) *Pretty {
	if opts.IndentSize <= 0 {
		opts.IndentSize = 2
	}
	return &Pretty{opts: opts}
}

func levelColors(lvl level.Level) text.Colors {
	switch lvl {
	case level.Trace:
		return text.Colors{text.FgMagenta}
	case level.Debug:
		return text.Colors{text.FgBlue}
	case level.Info:
		return text.Colors{text.FgGreen}
	case level.Warn:
		return text.Colors{text.FgYellow}
	case level.Error:
		return text.Colors{text.FgRed}
	case level.Fatal:
		return text.Colors{text.BgRed, text.FgWhite, text.Bold}
	default:
		return nil
	}
}

func messageColors(lvl level.Level) text.Colors {
	switch lvl {
	case level.Trace:
		return text.Colors{text.FgMagenta}
	case level.Debug:
		return text.Colors{text.FgBlue}
	case level.Warn:
		return text.Colors{text.FgYellow}
	case level.Error, level.Fatal:
		return text.Colors{text.FgRed}
	default:
		return nil
	}
}

func (p *Pretty) paint(colors text.Colors, s string) string {
	if !p.opts.Colors || len(colors) == 0 {
		return s
	}
	return colors.Sprint(s)
}

// Format implements Formatter.
func (p *Pretty) Format(rec record.Record) Event {
	eff := rec.EffectiveFields()

	var buf bytes.Buffer
	buf.Grow(96 + eff.Len()*24)

	if depth := rec.Depth(); depth > 0 {
		buf.WriteString(p.paint(text.Colors{text.Faint}, strings.Repeat("│ ", depth)))
	}

	if p.opts.Timestamps {
		layout := "15:04:05.000"
		if p.opts.ShowDate {
			layout = "2006-01-02 15:04:05.000"
		}
		buf.WriteString(p.paint(text.Colors{text.Faint}, rec.Time.Format(layout)))
		buf.WriteByte(' ')
	}

	buf.WriteByte('[')
	buf.WriteString(p.paint(levelColors(rec.Level), rec.Level.Short()))
	buf.WriteString("] ")

	if rec.Subtitle != "" {
		colors := levelColors(rec.Level)
		if p.opts.BoldSubtitles {
			colors = append(text.Colors{text.Bold}, colors...)
		}
		buf.WriteString(p.paint(colors, rec.Subtitle))
		buf.WriteByte(' ')
	}

	if p.opts.ShowScope {
		if name := scopeName(rec); name != "" {
			buf.WriteString(p.paint(text.Colors{text.FgCyan}, name))
			buf.WriteByte(' ')
		}
	}

	msg := strings.TrimSpace(rec.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(p.paint(messageColors(rec.Level), msg))

	if eff.Len() > 0 {
		buf.WriteString(" {")
		for i, f := range eff.All() {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(p.paint(text.Colors{text.FgCyan}, f.Key))
			buf.WriteByte('=')
			buf.WriteString(formatValue(f.Value))
		}
		buf.WriteByte('}')
	}

	line := buf.String()
	if p.opts.MaxWidth > 0 && text.StringWidthWithoutEscSequences(line) > p.opts.MaxWidth {
		line = text.Trim(line, p.opts.MaxWidth-3) + "..."
	}

	return Event{Level: rec.Level, Bytes: []byte(line)}
}

func scopeName(rec record.Record) string {
	if rec.Scope == nil {
		return ""
	}
	return rec.Scope.FullName()
}

func formatValue(v fields.Value) string {
	switch v.Kind() {
	case fields.KindString:
		s := v.Str()
		if needsQuotes(s) {
			return strconv.Quote(s)
		}
		return s
	case fields.KindGroup:
		return v.Group().String()
	default:
		return v.String()
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r == ',' || r == '{' || r == '}' {
			return true
		}
	}
	return false
}
