// Package level defines the severity scale shared by the logging pipeline.
//
// Levels are ordered Trace through Fatal and carry three label tiers: the
// full name used by JSON output, the three-letter short name used by the
// pretty console format, and the single-character label used by the compact
// format. Parse accepts any of the three plus common aliases such as
// "warning".
package level
