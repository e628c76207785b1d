// Package fields implements the structured field sets attached to log
// records and scopes.
//
// A Set is an ordered name-to-value mapping that is immutable once built:
// With and Merge return new overlays instead of mutating the receiver, so a
// set already captured by an in-flight record can never change underneath
// the renderer. Within one set names are unique; a later write for an
// existing name replaces the value in place, keeping the original position.
package fields
