// Package language normalizes the transcription language setting.
//
// Users may configure ISO 639-1 or 639-2 codes, BCP 47 tags, or English
// language names; WhisperX only accepts the 2-letter form. A small built-in
// table covers the common cases and golang.org/x/text resolves the rest.
package language
