// Package subtitles turns timed transcript segments into subtitle cues.
//
// The package holds the two pure transforms at the heart of subtitler:
//   - Convert maps each transcription segment onto a cue, optionally extending
//     cue ends toward the next cue's start without overlapping it.
//   - Merge folds consecutive fragments into sentence-complete cues bounded by
//     a character threshold.
//
// Both operate on fully materialized, start-ordered slices and never perform
// I/O. Reading and writing subtitle files lives in the cuefile subpackage;
// producing segments is the job of the WhisperX service.
package subtitles
