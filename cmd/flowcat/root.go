package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"

	"flowlog/config"
	"flowlog/level"
	"flowlog/render"
)

type renderFlags struct {
	configPath string
	format     string
	color      string
	minLevel   string
	include    []string
	exclude    []string
	noTime     bool
}

func newRootCommand() *cobra.Command {
	flags := &renderFlags{}

	rootCmd := &cobra.Command{
		Use:           "flowcat [file...]",
		Short:         "Re-render JSON log streams for humans",
		Long:          "flowcat reads JSON-line log records from files or stdin and re-renders\nthem with the pretty or compact formatter, with level and scope filtering.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), args, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: pretty or compact")
	rootCmd.Flags().StringVar(&flags.color, "color", "", "Color mode: auto, always, never")
	rootCmd.Flags().StringVarP(&flags.minLevel, "level", "l", "", "Minimum level to show")
	rootCmd.Flags().StringSliceVar(&flags.include, "include-scope", nil, "Only show records whose scope path contains the substring")
	rootCmd.Flags().StringSliceVar(&flags.exclude, "exclude-scope", nil, "Hide records whose scope path contains the substring")
	rootCmd.Flags().BoolVar(&flags.noTime, "no-timestamps", false, "Suppress timestamps")

	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// loadConfig resolves the effective configuration: file values when --config
// is set, defaults otherwise, with command-line flags layered on top.
func (f *renderFlags) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if f.format != "" {
		cfg.Format = strings.ToLower(f.format)
	}
	if cfg.Format == config.FormatJSON {
		cfg.Format = config.FormatPretty
	}
	if f.color != "" {
		cfg.Color = strings.ToLower(f.color)
	}
	if f.minLevel != "" {
		cfg.Level = strings.ToLower(f.minLevel)
	}
	if len(f.include) > 0 {
		cfg.IncludeScopes = f.include
	}
	if len(f.exclude) > 0 {
		cfg.ExcludeScopes = f.exclude
	}
	if f.noTime {
		cfg.Timestamps = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (f *renderFlags) formatter(cfg config.Config) (render.Formatter, error) {
	colors := false
	switch cfg.Color {
	case config.ColorAlways:
		colors = true
	case config.ColorAuto:
		colors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
	opts := render.Options{
		Colors:        colors,
		Timestamps:    cfg.Timestamps,
		ShowDate:      cfg.ShowDate,
		ShowScope:     cfg.ShowScope,
		BoldSubtitles: cfg.BoldSubtitles,
		IndentSize:    cfg.IndentSize,
		MaxWidth:      cfg.MaxWidth,
	}
	switch cfg.Format {
	case config.FormatCompact:
		return render.NewCompact(opts), nil
	case config.FormatPretty:
		return render.NewPretty(opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", cfg.Format)
	}
}

type entryFilter struct {
	min     level.Level
	include []string
	exclude []string
}

func newEntryFilter(cfg config.Config) (entryFilter, error) {
	lvl, ok := level.Parse(cfg.Level)
	if !ok {
		return entryFilter{}, fmt.Errorf("unknown level %q", cfg.Level)
	}
	return entryFilter{min: lvl, include: cfg.IncludeScopes, exclude: cfg.ExcludeScopes}, nil
}

func (f entryFilter) keep(e entry) bool {
	if !e.Level.Enabled(f.min) {
		return false
	}
	for _, sub := range f.exclude {
		if sub != "" && strings.Contains(e.ScopePath, sub) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, sub := range f.include {
		if sub != "" && strings.Contains(e.ScopePath, sub) {
			return true
		}
	}
	return false
}

func runRender(out io.Writer, args []string, flags *renderFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	formatter, err := flags.formatter(cfg)
	if err != nil {
		return err
	}
	filter, err := newEntryFilter(cfg)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	return forEachEntry(args, func(e entry) error {
		if !filter.keep(e) {
			return nil
		}
		ev := formatter.Format(e.toRecord())
		if _, err := w.Write(ev.Bytes); err != nil {
			return err
		}
		return w.WriteByte('\n')
	})
}

// forEachEntry streams entries from the named files, or stdin when none
// are given. Blank lines are skipped; a malformed line aborts with the
// file and line number.
func forEachEntry(paths []string, fn func(entry) error) error {
	if len(paths) == 0 {
		return scanEntries("stdin", os.Stdin, fn)
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = scanEntries(path, f, fn)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func scanEntries(name string, r io.Reader, fn func(entry) error) error {
	var parser fastjson.Parser
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e, err := parseLine(&parser, []byte(line))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}
