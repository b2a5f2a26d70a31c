// Package ytdlp downloads remote media through the yt-dlp command line tool.
//
// URL and playlist resolution is entirely yt-dlp's job. This package only
// builds the argument list, runs the binary and collects the final file
// paths it prints after post-processing, one per downloaded entry.
package ytdlp
