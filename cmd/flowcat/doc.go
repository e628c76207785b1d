// Package main hosts the flowcat CLI entrypoint and command graph.
//
// flowcat reads JSON-line log streams produced by the flowlog JSON
// formatter and re-renders them for humans: pretty or compact output with
// level and scope filtering, plus a stats view summarizing a stream. The
// Cobra command tree stays thin; parsing and rendering live in the library
// packages.
package main
