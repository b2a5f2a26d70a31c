package cuefile

import (
	"fmt"
	"path/filepath"
	"strings"

	"subtitler/internal/services"
)

// Format is a textual subtitle container.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat accepts "srt", ".srt", "vtt" or ".vtt" in any case.
func ParseFormat(value string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), ".") {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "cuefile", "parse format", fmt.Sprintf("unsupported subtitle format %q (want srt or vtt)", value), nil)
	}
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// OutputPath places a subtitle file for mediaPath in outputDir, or beside the
// media when outputDir is empty, with the media extension swapped for the
// format's.
func OutputPath(mediaPath, outputDir string, format Format) string {
	base := filepath.Base(mediaPath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + format.Extension()
	if strings.TrimSpace(outputDir) == "" {
		return filepath.Join(filepath.Dir(mediaPath), base)
	}
	return filepath.Join(outputDir, base)
}
