// Package whisperx runs WhisperX through uvx and returns timed transcript
// segments.
//
// A transcription extracts a mono 16kHz WAV with ffmpeg, invokes WhisperX
// with JSON output, and decodes the resulting segment list. Commands go
// through an injectable runner so tests never need ffmpeg or Python.
package whisperx
