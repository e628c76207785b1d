package fields

import (
	"fmt"
	"strconv"
	"time"
)

// Kind discriminates the payload stored in a Value.
type Kind int8

const (
	KindString Kind = iota
	KindInt64
	KindFloat64
	KindBool
	KindGroup
)

// Value is a tagged scalar or nested field set.
type Value struct {
	kind  Kind
	str   string
	num   int64
	float float64
	flag  bool
	group Set
}

// StringValue wraps a string.
func StringValue(v string) Value { return Value{kind: KindString, str: v} }

// Int64Value wraps an int64.
func Int64Value(v int64) Value { return Value{kind: KindInt64, num: v} }

// Float64Value wraps a float64.
func Float64Value(v float64) Value { return Value{kind: KindFloat64, float: v} }

// BoolValue wraps a bool.
func BoolValue(v bool) Value { return Value{kind: KindBool, flag: v} }

// GroupValue wraps a nested field set.
func GroupValue(s Set) Value { return Value{kind: KindGroup, group: s} }

// AnyValue converts an arbitrary Go value to the closest tagged Value.
// Unrecognized types are rendered with fmt.Sprint and stored as strings.
func AnyValue(v any) Value {
	switch v := v.(type) {
	case string:
		return StringValue(v)
	case int:
		return Int64Value(int64(v))
	case int32:
		return Int64Value(int64(v))
	case int64:
		return Int64Value(v)
	case uint:
		return Int64Value(int64(v))
	case uint64:
		return Int64Value(int64(v))
	case float32:
		return Float64Value(float64(v))
	case float64:
		return Float64Value(v)
	case bool:
		return BoolValue(v)
	case time.Duration:
		return StringValue(v.String())
	case error:
		return StringValue(v.Error())
	case Set:
		return GroupValue(v)
	case fmt.Stringer:
		return StringValue(v.String())
	default:
		return StringValue(fmt.Sprint(v))
	}
}

// Kind returns the payload discriminator.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload. Valid only for KindString.
func (v Value) Str() string { return v.str }

// Int64 returns the integer payload. Valid only for KindInt64.
func (v Value) Int64() int64 { return v.num }

// Float64 returns the float payload. Valid only for KindFloat64.
func (v Value) Float64() float64 { return v.float }

// Bool returns the boolean payload. Valid only for KindBool.
func (v Value) Bool() bool { return v.flag }

// Group returns the nested set payload. Valid only for KindGroup.
func (v Value) Group() Set { return v.group }

// String renders the value as plain text without quoting.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt64:
		return strconv.FormatInt(v.num, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.float, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindGroup:
		return v.group.String()
	default:
		return ""
	}
}

// Any returns the payload as a plain Go value, suitable for JSON encoding.
// Groups become map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt64:
		return v.num
	case KindFloat64:
		return v.float
	case KindBool:
		return v.flag
	case KindGroup:
		out := make(map[string]any, v.group.Len())
		for _, f := range v.group.All() {
			out[f.Key] = f.Value.Any()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt64:
		return v.num == o.num
	case KindFloat64:
		return v.float == o.float
	case KindBool:
		return v.flag == o.flag
	case KindGroup:
		return v.group.Equal(o.group)
	default:
		return true
	}
}
