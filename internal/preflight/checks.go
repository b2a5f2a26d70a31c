package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"subtitler/internal/config"
	"subtitler/internal/deps"
	"subtitler/internal/services/whisperx"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckVAD verifies that the configured voice activity detector can run.
func CheckVAD(cfg *config.Config) Result {
	const name = "Voice activity detection"
	method := strings.TrimSpace(cfg.Transcription.VADMethod)
	if method == "" {
		method = whisperx.VADMethodSilero
	}
	if method == whisperx.VADMethodPyannote && strings.TrimSpace(cfg.Transcription.HFToken) == "" {
		return Result{Name: name, Detail: "pyannote requires a Hugging Face token (transcription.hf_token or HF_TOKEN)"}
	}
	return Result{Name: name, Passed: true, Detail: method}
}

// CheckSystemDeps evaluates the external programs needed for the given config.
// Both the transcribe command and the status command use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio extraction",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Checks media for audio and duration",
			Optional:    true,
		},
		{
			Name:        "uvx",
			Command:     cfg.UVXBinary(),
			Description: "Required for WhisperX-driven transcription",
		},
		{
			Name:        "yt-dlp",
			Command:     cfg.Download.YtDlpBinary,
			Description: "Required for URL and playlist inputs",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}
