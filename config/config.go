package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Format tokens accepted by Config.Format.
const (
	FormatPretty  = "pretty"
	FormatCompact = "compact"
	FormatJSON    = "json"
)

// Color mode tokens accepted by Config.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Backpressure tokens accepted by Async.Backpressure.
const (
	BackpressureBlock  = "block"
	BackpressureReject = "reject"
)

// Async configures the buffered delivery path.
type Async struct {
	Enabled      bool   `toml:"enabled"`
	Capacity     int    `toml:"capacity"`
	Backpressure string `toml:"backpressure"`
}

// Config holds every logging knob.
type Config struct {
	Level         string   `toml:"level"`
	Format        string   `toml:"format"`
	Color         string   `toml:"color"`
	Timestamps    bool     `toml:"timestamps"`
	ShowDate      bool     `toml:"show_date"`
	ShowScope     bool     `toml:"show_scope"`
	BoldSubtitles bool     `toml:"bold_subtitles"`
	IndentSize    int      `toml:"indent_size"`
	MaxWidth      int      `toml:"max_width"`
	Output        []string `toml:"output"`
	IncludeScopes []string `toml:"include_scopes"`
	ExcludeScopes []string `toml:"exclude_scopes"`
	Async         Async    `toml:"async"`
}

// Default returns the zero-config settings: info level, pretty format with
// timestamps, auto color, stdout, synchronous delivery.
func Default() Config {
	return Config{
		Level:         "info",
		Format:        FormatPretty,
		Color:         ColorAuto,
		Timestamps:    true,
		BoldSubtitles: true,
		IndentSize:    2,
		Output:        []string{"stdout"},
		Async: Async{
			Capacity:     100,
			Backpressure: BackpressureBlock,
		},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize canonicalizes token fields and fills unset numeric knobs.
func (c *Config) Normalize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	c.Async.Backpressure = strings.ToLower(strings.TrimSpace(c.Async.Backpressure))

	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatPretty
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.IndentSize <= 0 {
		c.IndentSize = 2
	}
	if len(c.Output) == 0 {
		c.Output = []string{"stdout"}
	}
	if c.Async.Capacity <= 0 {
		c.Async.Capacity = 100
	}
	if c.Async.Backpressure == "" {
		c.Async.Backpressure = BackpressureBlock
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatPretty, FormatCompact, FormatJSON:
	default:
		return fmt.Errorf("config: unsupported format %q", c.Format)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: unsupported color mode %q", c.Color)
	}
	switch c.Async.Backpressure {
	case BackpressureBlock, BackpressureReject:
	default:
		return fmt.Errorf("config: unsupported backpressure policy %q", c.Async.Backpressure)
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("config: max_width must be >= 0, got %d", c.MaxWidth)
	}
	return nil
}

// Sample returns the annotated sample configuration file.
func Sample() string { return sampleConfig }
