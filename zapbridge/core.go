package zapbridge

import (
	"context"
	"sort"

	"go.uber.org/zap/zapcore"

	"flowlog"
	"flowlog/fields"
	"flowlog/level"
)

// Core forwards zap entries into a flowlog logger. Scope attribution comes
// from the context the core was built with.
type Core struct {
	log    *flowlog.Logger
	ctx    context.Context
	extras []fields.Field
}

var _ zapcore.Core = (*Core)(nil)

// New wraps a logger as a zapcore.Core. Records carry no scope beyond the
// root; use NewWithContext to anchor the core inside a scope.
func New(log *flowlog.Logger) *Core {
	return NewWithContext(context.Background(), log)
}

// NewWithContext wraps a logger as a zapcore.Core. Every entry written
// through the core snapshots the scope carried by ctx.
func NewWithContext(ctx context.Context, log *flowlog.Logger) *Core {
	return &Core{log: log, ctx: ctx}
}

func mapLevel(lvl zapcore.Level) level.Level {
	switch {
	case lvl <= zapcore.DebugLevel:
		return level.Debug
	case lvl == zapcore.InfoLevel:
		return level.Info
	case lvl == zapcore.WarnLevel:
		return level.Warn
	case lvl == zapcore.ErrorLevel:
		return level.Error
	default:
		return level.Fatal
	}
}

// Enabled implements zapcore.Core.
func (c *Core) Enabled(lvl zapcore.Level) bool {
	return mapLevel(lvl).Enabled(c.log.Level())
}

// With implements zapcore.Core.
func (c *Core) With(fs []zapcore.Field) zapcore.Core {
	clone := *c
	clone.extras = append(clone.extras[:len(clone.extras):len(clone.extras)], convert(fs)...)
	return &clone
}

// Check implements zapcore.Core.
func (c *Core) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

// Write implements zapcore.Core.
func (c *Core) Write(entry zapcore.Entry, fs []zapcore.Field) error {
	all := c.extras
	if len(fs) > 0 {
		all = append(all[:len(all):len(all)], convert(fs)...)
	}
	if entry.LoggerName != "" {
		all = append(all[:len(all):len(all)], fields.String("logger", entry.LoggerName))
	}
	return c.log.Log(c.ctx, mapLevel(entry.Level), entry.Message, all...)
}

// Sync implements zapcore.Core by flushing the delivery path.
func (c *Core) Sync() error {
	return c.log.Flush(c.ctx)
}

// convert re-encodes zap fields through a map encoder, which resolves
// every zap field type without enumerating them here.
func convert(fs []zapcore.Field) []fields.Field {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fs {
		f.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]fields.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, fields.Any(k, enc.Fields[k]))
	}
	return out
}
