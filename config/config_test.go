package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Level != "info" || cfg.Format != FormatPretty || cfg.Color != ColorAuto {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Async.Enabled {
		t.Fatal("async should default off")
	}
	if cfg.Async.Capacity != 100 || cfg.Async.Backpressure != BackpressureBlock {
		t.Fatalf("unexpected async defaults: %+v", cfg.Async)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowlog.toml")
	content := `
level = "DEBUG"
format = "JSON"
output = ["stderr", "/tmp/app.log"]
exclude_scopes = ["noisy"]

[async]
enabled = true
capacity = 16
backpressure = "reject"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level != "debug" || cfg.Format != FormatJSON {
		t.Fatalf("tokens not normalized: %+v", cfg)
	}
	if len(cfg.Output) != 2 || cfg.Output[0] != "stderr" {
		t.Fatalf("output = %v", cfg.Output)
	}
	if !cfg.Async.Enabled || cfg.Async.Capacity != 16 || cfg.Async.Backpressure != BackpressureReject {
		t.Fatalf("async = %+v", cfg.Async)
	}
	// Keys absent from the file keep their defaults.
	if !cfg.Timestamps || cfg.IndentSize != 2 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte(`format = "xml"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("Load = %v, want unsupported format error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSampleMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := os.WriteFile(path, []byte(Sample()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	want := Default()
	want.Normalize()
	if cfg.Level != want.Level || cfg.Format != want.Format || cfg.Async.Capacity != want.Async.Capacity {
		t.Fatalf("sample differs from defaults: %+v vs %+v", cfg, want)
	}
}
