package fields

import (
	"strings"
	"time"
)

// Field is a single named value.
type Field struct {
	Key   string
	Value Value
}

// String builds a string field.
func String(key, value string) Field { return Field{Key: key, Value: StringValue(value)} }

// Int builds an integer field.
func Int(key string, value int) Field { return Field{Key: key, Value: Int64Value(int64(value))} }

// Int64 builds an integer field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: Int64Value(value)} }

// Float64 builds a float field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: Float64Value(value)} }

// Bool builds a boolean field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: BoolValue(value)} }

// Duration builds a string field holding the duration's text form.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: StringValue(value.String())}
}

// Group builds a field holding a nested set.
func Group(key string, fs ...Field) Field {
	return Field{Key: key, Value: GroupValue(New(fs...))}
}

// Any builds a field from an arbitrary Go value.
func Any(key string, value any) Field { return Field{Key: key, Value: AnyValue(value)} }

// Err builds the conventional "error" field.
func Err(err error) Field {
	if err == nil {
		return String("error", "<nil>")
	}
	return String("error", err.Error())
}

// Set is an ordered, immutable collection of uniquely named fields.
// The zero value is an empty set ready to use.
type Set struct {
	fields []Field
}

// New builds a set from the given fields. Later duplicates of a name replace
// the earlier value while keeping its original position.
func New(fs ...Field) Set {
	var s Set
	return s.With(fs...)
}

// With returns a new set extended with the given fields. The receiver is
// unchanged.
func (s Set) With(fs ...Field) Set {
	if len(fs) == 0 {
		return s
	}
	out := make([]Field, len(s.fields), len(s.fields)+len(fs))
	copy(out, s.fields)
next:
	for _, f := range fs {
		for i := range out {
			if out[i].Key == f.Key {
				out[i].Value = f.Value
				continue next
			}
		}
		out = append(out, f)
	}
	return Set{fields: out}
}

// Merge returns a new set with the overlay's fields applied on top of the
// receiver, overlay values winning on name collisions.
func (s Set) Merge(overlay Set) Set {
	if overlay.Len() == 0 {
		return s
	}
	return s.With(overlay.fields...)
}

// Get looks up a field value by name.
func (s Set) Get(key string) (Value, bool) {
	for _, f := range s.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the set contains the named field.
func (s Set) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of fields in the set.
func (s Set) Len() int { return len(s.fields) }

// All returns the fields in order. The returned slice is a copy.
func (s Set) All() []Field {
	if len(s.fields) == 0 {
		return nil
	}
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Equal reports whether two sets hold the same fields in the same order.
func (s Set) Equal(o Set) bool {
	if len(s.fields) != len(o.fields) {
		return false
	}
	for i, f := range s.fields {
		if f.Key != o.fields[i].Key || !f.Value.Equal(o.fields[i].Value) {
			return false
		}
	}
	return true
}

// String renders the set as "{k=v, k2=v2}" without quoting.
func (s Set) String() string {
	if len(s.fields) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}
