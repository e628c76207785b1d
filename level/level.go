package level

import "strings"

// Level identifies the severity of a log record.
type Level int8

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

// String returns the full uppercase name of the level.
func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "INFO"
	}
}

// Short returns the three-letter label used by the pretty console format.
func (l Level) Short() string {
	switch l {
	case Trace:
		return "TRC"
	case Debug:
		return "DBG"
	case Info:
		return "INF"
	case Warn:
		return "WRN"
	case Error:
		return "ERR"
	case Fatal:
		return "FTL"
	default:
		return "INF"
	}
}

// Char returns the single-character label used by the compact format.
func (l Level) Char() string {
	switch l {
	case Trace:
		return "T"
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warn:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	default:
		return "I"
	}
}

// Enabled reports whether a record at level l passes a minimum level gate.
func (l Level) Enabled(min Level) bool {
	return l >= min
}

// Parse converts a level name to a Level. It accepts full names, short
// names, and single-character labels in any case, plus the "warning" alias.
// The second return value reports whether the input was recognized.
func Parse(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE", "TRC", "T":
		return Trace, true
	case "DEBUG", "DBG", "D":
		return Debug, true
	case "INFO", "INF", "I":
		return Info, true
	case "WARN", "WRN", "W", "WARNING":
		return Warn, true
	case "ERROR", "ERR", "E":
		return Error, true
	case "FATAL", "FTL", "F":
		return Fatal, true
	default:
		return Info, false
	}
}

// All returns every level in ascending severity order.
func All() []Level {
	return []Level{Trace, Debug, Info, Warn, Error, Fatal}
}
