// Package main hosts the subtitler CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the logger and hands work to the internal packages: transcribe drives the
// batch pipeline, merge and text operate on existing cue files, and status,
// config and cache expose diagnostics and maintenance.
package main
