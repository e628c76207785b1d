// Package scope tracks the tree of active logging scopes and propagates the
// current scope along a logical execution path.
//
// The carrier for "current scope" is context.Context: Begin derives a child
// scope from whatever scope the supplied context holds and returns a new
// context with the child installed. Code that keeps using the parent context
// is untouched, so restoration on scope exit is structural rather than
// stateful, and two goroutines can nest scopes concurrently without
// observing each other. A goroutine handed a context inherits the scope
// captured in it; inheritance is always explicit via the context value.
//
// Scopes are immutable snapshots. A child captures its parent's field set at
// creation time and never observes later overlays made through WithFields,
// which install a replacement scope in a new context instead of mutating the
// shared node.
package scope
