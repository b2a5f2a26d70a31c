// Package services defines shared utilities consumed by the transcription
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and media paths for logging
//     and tracing.
//   - Structured error markers plus the Wrap helper so every failure carries
//     a classification (invalid input, transcription, parse, io, ...) that
//     the batch summary and the CLI exit path can act on.
//
// Use these helpers when wiring new collaborators so error handling and
// observability stay uniform across the pipeline.
package services
