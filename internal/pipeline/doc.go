// Package pipeline drives a batch of media files through transcription and
// subtitle generation.
//
// For every item the Runner probes the media, loads segments from the
// transcript cache or the Transcriber, drops blank and hallucinated segments,
// optionally merges fragments into sentences, converts them to cues and
// writes the cue file atomically. A failing item is recorded in the Summary
// and the batch moves on; only setup problems (invalid options, a concurrent
// batch holding the lock) abort the whole run.
package pipeline
