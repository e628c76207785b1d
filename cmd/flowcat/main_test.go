package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valyala/fastjson"

	"flowlog/level"
)

const sampleStream = `{"timestamp":"2026-03-14T09:26:53.589Z","level":"info","message":"server started","fields":{"port":8080,"tls":true}}
{"timestamp":"2026-03-14T09:26:53.612Z","level":"debug","message":"handler registered","scope":{"id":"5f1c0b8e-0000-4000-8000-000000000001","name":"http","path":"http","depth":1}}
{"timestamp":"2026-03-14T09:26:54.002Z","level":"error","message":"query failed","scope":{"id":"5f1c0b8e-0000-4000-8000-000000000002","name":"db","path":"http.db","depth":2},"fields":{"elapsed":"1.2s"}}
`

func TestParseLine(t *testing.T) {
	var p fastjson.Parser
	line := `{"timestamp":"2026-03-14T09:26:53.589Z","level":"warn","message":"slow","subtitle":"db","scope":{"id":"x","name":"db","path":"http.db","depth":2},"fields":{"ms":250,"ratio":0.5,"ok":false,"q":"select"}}`

	e, err := parseLine(&p, []byte(line))
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if e.Level != level.Warn || e.Message != "slow" || e.Subtitle != "db" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.ScopePath != "http.db" || e.Depth != 2 {
		t.Fatalf("scope not decoded: %+v", e)
	}
	if e.Time.IsZero() {
		t.Fatal("timestamp not decoded")
	}
	if got := e.Fields.String(); got != "{ms=250, ok=false, q=select, ratio=0.5}" {
		t.Fatalf("fields = %s", got)
	}
}

func TestParseLineRejectsGarbage(t *testing.T) {
	var p fastjson.Parser
	if _, err := parseLine(&p, []byte("not json")); err == nil {
		t.Fatal("expected a parse error")
	}
	if _, err := parseLine(&p, []byte(`{"level":"loud","message":"x"}`)); err == nil {
		t.Fatal("expected an unknown-level error")
	}
}

func TestEntryToRecordRebuildsScopeDepth(t *testing.T) {
	var p fastjson.Parser
	e, err := parseLine(&p, []byte(`{"timestamp":"2026-03-14T09:26:54.002Z","level":"info","message":"x","scope":{"id":"y","name":"db","path":"http.db","depth":2}}`))
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	rec := e.toRecord()
	if rec.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", rec.Depth())
	}
	if rec.Scope.FullName() != "http.db" {
		t.Fatalf("path = %q", rec.Scope.FullName())
	}
}

func TestEntryFilter(t *testing.T) {
	f := entryFilter{min: level.Info, include: []string{"http"}, exclude: []string{"http.db"}}

	if f.keep(entry{Level: level.Debug, ScopePath: "http"}) {
		t.Fatal("debug should be gated")
	}
	if !f.keep(entry{Level: level.Info, ScopePath: "http"}) {
		t.Fatal("matching scope should pass")
	}
	if f.keep(entry{Level: level.Error, ScopePath: "http.db"}) {
		t.Fatal("excluded scope should be dropped")
	}
	if f.keep(entry{Level: level.Info, ScopePath: ""}) {
		t.Fatal("unscoped records fail an include filter")
	}
}

func TestRunRenderEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	if err := os.WriteFile(path, []byte(sampleStream), 0o644); err != nil {
		t.Fatalf("write stream: %v", err)
	}

	var out bytes.Buffer
	flags := &renderFlags{format: "compact", color: "never", minLevel: "trace"}
	if err := runRender(&out, []string{path}, flags); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rendered lines, got %q", lines)
	}
	if !strings.Contains(lines[0], "I server started port=8080 tls=true") {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[2], "query failed elapsed=1.2s") {
		t.Fatalf("line 2 = %q", lines[2])
	}
}

func TestStatsAggregation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	if err := os.WriteFile(path, []byte(sampleStream), 0o644); err != nil {
		t.Fatalf("write stream: %v", err)
	}

	stats := newStreamStats()
	if err := forEachEntry([]string{path}, func(e entry) error {
		stats.observe(e)
		return nil
	}); err != nil {
		t.Fatalf("forEachEntry: %v", err)
	}

	if stats.total != 3 {
		t.Fatalf("total = %d", stats.total)
	}
	if stats.byLevel[level.Info] != 1 || stats.byLevel[level.Debug] != 1 || stats.byLevel[level.Error] != 1 {
		t.Fatalf("level counts = %v", stats.byLevel)
	}
	if stats.byScope["http"] != 2 || stats.byScope["(unscoped)"] != 1 {
		t.Fatalf("scope counts = %v", stats.byScope)
	}

	var out bytes.Buffer
	if err := writeStats(&out, stats); err != nil {
		t.Fatalf("writeStats: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "3 records") {
		t.Fatalf("missing record count: %q", text)
	}
	if !strings.Contains(text, "Level") || !strings.Contains(text, "Scope") {
		t.Fatalf("missing table headers: %q", text)
	}
}
