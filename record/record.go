package record

import (
	"context"
	"time"

	"flowlog/fields"
	"flowlog/level"
	"flowlog/scope"
)

// Record is one immutable log event. Fields holds only the explicit
// call-site overlay; scope-inherited fields are reached through Scope.
type Record struct {
	Time     time.Time
	Level    level.Level
	Message  string
	Subtitle string
	Fields   fields.Set
	Scope    *scope.Scope
}

// New captures a record for the calling context. The current scope is
// snapshotted now, not at delivery time.
func New(ctx context.Context, lvl level.Level, msg string, fs ...fields.Field) Record {
	return Record{
		Time:    time.Now(),
		Level:   lvl,
		Message: msg,
		Fields:  fields.New(fs...),
		Scope:   scope.FromContext(ctx),
	}
}

// EffectiveFields merges the scope's inherited fields with the record's
// explicit overlay, explicit values winning on name collisions.
func (r Record) EffectiveFields() fields.Set {
	sc := r.Scope
	if sc == nil {
		sc = scope.Root()
	}
	return sc.Fields().Merge(r.Fields)
}

// Depth returns the nesting depth of the record's scope.
func (r Record) Depth() int {
	if r.Scope == nil {
		return 0
	}
	return r.Scope.Depth()
}

// ScopePath returns the scope names from outermost to innermost.
func (r Record) ScopePath() []string {
	if r.Scope == nil {
		return nil
	}
	return r.Scope.Path()
}
