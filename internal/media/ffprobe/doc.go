// Package ffprobe wraps ffprobe's JSON output.
//
// The pipeline uses it to reject inputs without an audio stream before a
// transcription is attempted and to learn the media duration, which the cue
// validator compares against the last cue.
package ffprobe
