package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flowlog/level"
)

// streamStats aggregates one pass over a log stream.
type streamStats struct {
	total    int
	byLevel  map[level.Level]int
	byScope  map[string]int
	earliest time.Time
	latest   time.Time
}

func newStreamStats() *streamStats {
	return &streamStats{
		byLevel: make(map[level.Level]int),
		byScope: make(map[string]int),
	}
}

func (s *streamStats) observe(e entry) {
	s.total++
	s.byLevel[e.Level]++
	scope := e.ScopePath
	if scope == "" {
		scope = "(unscoped)"
	} else if i := strings.IndexByte(scope, '.'); i > 0 {
		scope = scope[:i]
	}
	s.byScope[scope]++
	if !e.Time.IsZero() {
		if s.earliest.IsZero() || e.Time.Before(s.earliest) {
			s.earliest = e.Time
		}
		if e.Time.After(s.latest) {
			s.latest = e.Time
		}
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file...]",
		Short: "Summarize a JSON log stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := newStreamStats()
			if err := forEachEntry(args, func(e entry) error {
				stats.observe(e)
				return nil
			}); err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), stats)
		},
	}
}

func writeStats(out io.Writer, stats *streamStats) error {
	if stats.total == 0 {
		_, err := fmt.Fprintln(out, "no records")
		return err
	}

	fmt.Fprintf(out, "%d records", stats.total)
	if !stats.earliest.IsZero() {
		fmt.Fprintf(out, " spanning %s", stats.latest.Sub(stats.earliest).Round(time.Millisecond))
	}
	fmt.Fprintln(out)

	levelRows := make([][]string, 0, len(stats.byLevel))
	for _, lvl := range level.All() {
		if n := stats.byLevel[lvl]; n > 0 {
			levelRows = append(levelRows, []string{lvl.String(), strconv.Itoa(n)})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"level", "count"}, levelRows, 2))

	scopes := make([]string, 0, len(stats.byScope))
	for name := range stats.byScope {
		scopes = append(scopes, name)
	}
	sort.Slice(scopes, func(i, j int) bool {
		if stats.byScope[scopes[i]] != stats.byScope[scopes[j]] {
			return stats.byScope[scopes[i]] > stats.byScope[scopes[j]]
		}
		return scopes[i] < scopes[j]
	})
	scopeRows := make([][]string, 0, len(scopes))
	for _, name := range scopes {
		scopeRows = append(scopeRows, []string{name, strconv.Itoa(stats.byScope[name])})
	}
	_, err := fmt.Fprintln(out, renderTable([]string{"scope", "count"}, scopeRows, 2))
	return err
}
