// Package logging builds the slog loggers used across subtitler.
//
// Two handlers are available: a console handler that prints a readable header
// line per event with indented fields, and a JSON handler for machine
// consumption. Loggers pick up the run id, item index and media path from the
// context (see WithContext) and every record of one invocation carries the
// same session_id.
package logging
