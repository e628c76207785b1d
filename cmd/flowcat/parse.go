package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"flowlog/fields"
	"flowlog/level"
	"flowlog/record"
	"flowlog/scope"
)

// entry is one decoded JSON log line.
type entry struct {
	Time      time.Time
	Level     level.Level
	Message   string
	Subtitle  string
	ScopePath string
	Depth     int
	Fields    fields.Set
}

// parseLine decodes a single JSON-formatter line. The parser is reused
// across lines; fastjson values are only valid until the next Parse.
func parseLine(p *fastjson.Parser, line []byte) (entry, error) {
	v, err := p.ParseBytes(line)
	if err != nil {
		return entry{}, fmt.Errorf("parse line: %w", err)
	}

	var e entry

	lvl, ok := level.Parse(string(v.GetStringBytes("level")))
	if !ok {
		return entry{}, fmt.Errorf("unknown level %q", v.GetStringBytes("level"))
	}
	e.Level = lvl
	e.Message = string(v.GetStringBytes("message"))
	e.Subtitle = string(v.GetStringBytes("subtitle"))

	if ts := v.GetStringBytes("timestamp"); len(ts) > 0 {
		parsed, err := time.Parse(time.RFC3339Nano, string(ts))
		if err != nil {
			return entry{}, fmt.Errorf("parse timestamp: %w", err)
		}
		e.Time = parsed
	}

	if sc := v.Get("scope"); sc != nil {
		e.ScopePath = string(sc.GetStringBytes("path"))
		e.Depth = sc.GetInt("depth")
	}

	if fv := v.Get("fields"); fv != nil {
		obj, err := fv.Object()
		if err != nil {
			return entry{}, fmt.Errorf("parse fields: %w", err)
		}
		var fs []fields.Field
		obj.Visit(func(key []byte, val *fastjson.Value) {
			fs = append(fs, jsonField(string(key), val))
		})
		sort.Slice(fs, func(i, j int) bool { return fs[i].Key < fs[j].Key })
		e.Fields = fields.New(fs...)
	}

	return e, nil
}

func jsonField(key string, v *fastjson.Value) fields.Field {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return fields.String(key, string(b))
	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return fields.Int64(key, i)
		}
		f, _ := v.Float64()
		return fields.Float64(key, f)
	case fastjson.TypeTrue, fastjson.TypeFalse:
		b, _ := v.Bool()
		return fields.Bool(key, b)
	case fastjson.TypeNull:
		return fields.String(key, "null")
	default:
		return fields.String(key, v.String())
	}
}

// toRecord rebuilds a renderable record, recreating the scope chain from
// the serialized path so depth and indentation survive the round trip.
func (e entry) toRecord() record.Record {
	ctx := context.Background()
	if e.ScopePath != "" {
		for _, name := range strings.Split(e.ScopePath, ".") {
			ctx, _ = scope.Begin(ctx, name)
		}
	}
	return record.Record{
		Time:     e.Time,
		Level:    e.Level,
		Message:  e.Message,
		Subtitle: e.Subtitle,
		Fields:   e.Fields,
		Scope:    scope.FromContext(ctx),
	}
}
