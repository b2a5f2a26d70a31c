// Package transcriptcache stores WhisperX segment lists in SQLite so a media
// file is transcribed once per model and language.
//
// Entries are keyed by the media fingerprint (absolute path, size and
// modification time) combined with the model and language; touching or
// replacing the file therefore invalidates its entry. Writes retry while the
// database is busy so concurrent workers can share one cache.
package transcriptcache
