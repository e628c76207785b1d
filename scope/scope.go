package scope

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"flowlog/fields"
)

// Scope is one node in the tree of active logging scopes. The root scope has
// depth 0, an empty name, and no parent.
type Scope struct {
	id     uuid.UUID
	name   string
	depth  int
	fields fields.Set
	parent *Scope
	ended  atomic.Bool
}

var root = &Scope{}

// Root returns the implicit root scope.
func Root() *Scope { return root }

type ctxKey struct{}

// NewContext returns a context carrying s as the current scope.
func NewContext(ctx context.Context, s *Scope) context.Context {
	if s == nil {
		s = root
	}
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope visible to the calling logical path. If the
// context carries none, the implicit root is returned.
func FromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return root
	}
	if s, ok := ctx.Value(ctxKey{}).(*Scope); ok {
		return s
	}
	return root
}

// Begin creates a child scope under the context's current scope and returns
// a derived context with the child installed. The child snapshots the
// parent's field set merged with fs. Callers should defer End on the
// returned scope; code holding the original context keeps the previous
// scope regardless of how the block exits.
func Begin(ctx context.Context, name string, fs ...fields.Field) (context.Context, *Scope) {
	parent := FromContext(ctx)
	child := &Scope{
		id:     uuid.New(),
		name:   name,
		depth:  parent.depth + 1,
		fields: parent.fields.With(fs...),
		parent: parent,
	}
	return context.WithValue(ctx, ctxKey{}, child), child
}

// WithFields installs a replacement for the context's current scope whose
// field set is extended with fs. Log calls and child scopes made from the
// returned context see the extra fields; the original scope node and every
// record that already captured it are unaffected. The root scope cannot
// carry fields; calling WithFields on a root context begins an unnamed
// scope instead.
func WithFields(ctx context.Context, fs ...fields.Field) context.Context {
	cur := FromContext(ctx)
	if cur.IsRoot() {
		next, _ := Begin(ctx, "", fs...)
		return next
	}
	replacement := &Scope{
		id:     cur.id,
		name:   cur.name,
		depth:  cur.depth,
		fields: cur.fields.With(fs...),
		parent: cur.parent,
	}
	return context.WithValue(ctx, ctxKey{}, replacement)
}

// End marks the scope closed. Ending a scope twice, or ending the root,
// is a caller bug and panics rather than silently corrupting nesting state.
func (s *Scope) End() {
	if s.IsRoot() {
		panic("scope: end of root scope without matching begin")
	}
	if !s.ended.CompareAndSwap(false, true) {
		panic("scope: scope ended twice")
	}
}

// Ended reports whether End has been called.
func (s *Scope) Ended() bool { return s.ended.Load() }

// ID returns the scope's unique identifier. The root scope's ID is zero.
func (s *Scope) ID() uuid.UUID { return s.id }

// Name returns the scope name given to Begin.
func (s *Scope) Name() string { return s.name }

// Depth returns the nesting depth; the root is 0 and each child is its
// parent's depth plus one.
func (s *Scope) Depth() int { return s.depth }

// Fields returns the scope's inherited field snapshot.
func (s *Scope) Fields() fields.Set { return s.fields }

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// IsRoot reports whether s is the implicit root.
func (s *Scope) IsRoot() bool { return s.parent == nil }

// Path returns the scope names from outermost to innermost, excluding the
// root.
func (s *Scope) Path() []string {
	if s.IsRoot() {
		return nil
	}
	names := make([]string, 0, s.depth)
	for n := s; !n.IsRoot(); n = n.parent {
		names = append(names, n.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// FullName joins the scope path with dots, e.g. "job.encode".
func (s *Scope) FullName() string {
	return strings.Join(s.Path(), ".")
}
