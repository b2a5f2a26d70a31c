// Package media turns command-line inputs into the list of local media files
// a batch run transcribes.
//
// An input may be a single file (accepted whatever its extension), a folder
// (its direct children with a known media extension, sorted by name) or an
// http(s) URL, which is handed to a Downloader such as yt-dlp.
package media
