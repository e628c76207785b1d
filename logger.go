package flowlog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"flowlog/config"
	"flowlog/delivery"
	"flowlog/fields"
	"flowlog/internal/term"
	"flowlog/level"
	"flowlog/record"
	"flowlog/render"
	"flowlog/scope"
	"flowlog/sink"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is the minimum level emitted. Defaults to Info.
	Level level.Level
	// Formatter renders records. Defaults to a plain pretty formatter.
	Formatter render.Formatter
	// Sink receives rendered events. Defaults to stdout.
	Sink sink.Sink
	// Async routes events through a bounded queue drained by a background
	// task started with Start.
	Async bool
	// QueueCapacity bounds the async queue. Defaults to
	// delivery.DefaultCapacity.
	QueueCapacity int
	// Backpressure governs full-queue behavior in async mode.
	Backpressure delivery.Policy
	// OnError observes background sink failures in async mode.
	OnError func(error)
	// IncludeScopes, when non-empty, restricts output to records whose
	// scope path contains one of the substrings.
	IncludeScopes []string
	// ExcludeScopes drops records whose scope path contains one of the
	// substrings.
	ExcludeScopes []string
}

// levelVar is a level gate shared by a logger and everything derived from
// it, adjustable at runtime.
type levelVar struct {
	v atomic.Int32
}

func (lv *levelVar) get() level.Level    { return level.Level(lv.v.Load()) }
func (lv *levelVar) set(lvl level.Level) { lv.v.Store(int32(lvl)) }

// Logger is the pipeline entry point. Loggers are cheap values: With and
// WithSubtitle return derived loggers sharing the same delivery path and
// level gate.
type Logger struct {
	lvl       *levelVar
	include   []string
	exclude   []string
	formatter render.Formatter
	deliverer delivery.Deliverer
	queue     *delivery.Queue
	overlay   fields.Set
	subtitle  string
}

// New constructs a logger. The zero Options value yields a synchronous
// pretty logger on stdout at Info level.
func New(opts Options) *Logger {
	formatter := opts.Formatter
	if formatter == nil {
		formatter = render.NewPretty(render.DefaultOptions())
	}
	out := opts.Sink
	if out == nil {
		out = sink.Stdout()
	}

	l := &Logger{
		lvl:       &levelVar{},
		include:   opts.IncludeScopes,
		exclude:   opts.ExcludeScopes,
		formatter: formatter,
	}
	l.lvl.set(opts.Level)

	if opts.Async {
		l.queue = delivery.NewQueue(out, delivery.Options{
			Capacity: opts.QueueCapacity,
			Policy:   opts.Backpressure,
			OnError:  opts.OnError,
		})
		l.deliverer = l.queue
	} else {
		l.deliverer = delivery.NewDirect(out)
	}
	return l
}

// NewFromConfig builds a logger from validated configuration. The async
// queue, when enabled, still requires an explicit Start.
func NewFromConfig(cfg *config.Config) (*Logger, error) {
	resolved := config.Default()
	if cfg != nil {
		resolved = *cfg
	}
	resolved.Normalize()
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	out, err := sink.Open(resolved.Output...)
	if err != nil {
		return nil, err
	}

	colors := false
	switch resolved.Color {
	case config.ColorAlways:
		colors = true
	case config.ColorAuto:
		colors = term.IsTerminal(os.Stdout)
	}

	ropts := render.Options{
		Colors:        colors,
		Timestamps:    resolved.Timestamps,
		ShowDate:      resolved.ShowDate,
		ShowScope:     resolved.ShowScope,
		BoldSubtitles: resolved.BoldSubtitles,
		IndentSize:    resolved.IndentSize,
		MaxWidth:      resolved.MaxWidth,
	}
	var formatter render.Formatter
	switch resolved.Format {
	case config.FormatJSON:
		formatter = render.NewJSON()
	case config.FormatCompact:
		formatter = render.NewCompact(ropts)
	default:
		formatter = render.NewPretty(ropts)
	}

	lvl, ok := level.Parse(resolved.Level)
	if !ok {
		return nil, fmt.Errorf("config: unknown level %q", resolved.Level)
	}

	policy := delivery.Block
	if resolved.Async.Backpressure == config.BackpressureReject {
		policy = delivery.Reject
	}

	return New(Options{
		Level:         lvl,
		Formatter:     formatter,
		Sink:          out,
		Async:         resolved.Async.Enabled,
		QueueCapacity: resolved.Async.Capacity,
		Backpressure:  policy,
		IncludeScopes: resolved.IncludeScopes,
		ExcludeScopes: resolved.ExcludeScopes,
	}), nil
}

// SetLevel adjusts the minimum emitted level at runtime, affecting the
// logger and everything derived from it.
func (l *Logger) SetLevel(lvl level.Level) { l.lvl.set(lvl) }

// Level returns the current minimum emitted level.
func (l *Logger) Level() level.Level { return l.lvl.get() }

// With returns a derived logger whose records carry the extra fields as an
// explicit overlay. The receiver is unchanged.
func (l *Logger) With(fs ...fields.Field) *Logger {
	clone := *l
	clone.overlay = l.overlay.With(fs...)
	return &clone
}

// WithSubtitle returns a derived logger whose records carry the subtitle.
func (l *Logger) WithSubtitle(subtitle string) *Logger {
	clone := *l
	clone.subtitle = subtitle
	return &clone
}

// BeginScope opens a child scope under the context's current scope. The
// returned context carries the child; callers should defer End on the
// returned scope.
func (l *Logger) BeginScope(ctx context.Context, name string, fs ...fields.Field) (context.Context, *scope.Scope) {
	return scope.Begin(ctx, name, fs...)
}

func (l *Logger) enabled(lvl level.Level, sc *scope.Scope) bool {
	if !lvl.Enabled(l.lvl.get()) {
		return false
	}
	if len(l.exclude) == 0 && len(l.include) == 0 {
		return true
	}
	path := sc.FullName()
	for _, sub := range l.exclude {
		if sub != "" && strings.Contains(path, sub) {
			return false
		}
	}
	if len(l.include) == 0 {
		return true
	}
	for _, sub := range l.include {
		if sub != "" && strings.Contains(path, sub) {
			return true
		}
	}
	return false
}

// Log emits one record at the given level. Construction snapshots the
// context's current scope now, never at flush time. In synchronous mode a
// nil return means delivered; in async mode it means accepted for eventual
// delivery.
func (l *Logger) Log(ctx context.Context, lvl level.Level, msg string, fs ...fields.Field) error {
	sc := scope.FromContext(ctx)
	if !l.enabled(lvl, sc) {
		return nil
	}
	rec := record.Record{
		Time:     time.Now(),
		Level:    lvl,
		Message:  msg,
		Subtitle: l.subtitle,
		Fields:   l.overlay.With(fs...),
		Scope:    sc,
	}
	return l.deliverer.Deliver(ctx, l.formatter.Format(rec))
}

// Trace logs at trace level.
func (l *Logger) Trace(ctx context.Context, msg string, fs ...fields.Field) error {
	return l.Log(ctx, level.Trace, msg, fs...)
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, fs ...fields.Field) error {
	return l.Log(ctx, level.Debug, msg, fs...)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, fs ...fields.Field) error {
	return l.Log(ctx, level.Info, msg, fs...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, fs ...fields.Field) error {
	return l.Log(ctx, level.Warn, msg, fs...)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, fs ...fields.Field) error {
	return l.Log(ctx, level.Error, msg, fs...)
}

// Fatal logs at fatal level. It does not terminate the process; fatal is a
// severity, not an action.
func (l *Logger) Fatal(ctx context.Context, msg string, fs ...fields.Field) error {
	return l.Log(ctx, level.Fatal, msg, fs...)
}

// Start launches the background flush task in async mode. It is a no-op
// for synchronous loggers.
func (l *Logger) Start() error {
	if l.queue == nil {
		return nil
	}
	return l.queue.Start()
}

// Flush completes once every event accepted strictly before the call has
// reached the sink. Synchronous loggers have nothing buffered.
func (l *Logger) Flush(ctx context.Context) error {
	return l.deliverer.Flush(ctx)
}

// Close drains and stops the delivery path. After Close, async log calls
// fail with delivery.ErrClosed.
func (l *Logger) Close(ctx context.Context) error {
	return l.deliverer.Close(ctx)
}

// Errors exposes background sink failures in async mode. It returns nil
// for synchronous loggers, whose callers see failures directly.
func (l *Logger) Errors() <-chan error {
	if l.queue == nil {
		return nil
	}
	return l.queue.Errors()
}

// State reports the async queue's lifecycle phase. Synchronous loggers
// are always running.
func (l *Logger) State() delivery.State {
	if l.queue == nil {
		return delivery.StateRunning
	}
	return l.queue.State()
}
