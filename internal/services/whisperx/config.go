package whisperx

import (
	"slices"
	"strings"
)

// Config captures runtime settings shared by every transcription.
type Config struct {
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
	// FFmpegBinary extracts the audio track handed to WhisperX.
	FFmpegBinary string
}

// Options select the model and language for a single transcription.
type Options struct {
	Model    string
	Language string
	// WorkDir receives the extracted audio and WhisperX output. Required.
	WorkDir string
}

// WhisperX configuration constants.
const (
	DefaultModel      = "small"
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	ChunkSize         = "15"
	VADOnset          = "0.08"
	VADOffset         = "0.07"
	BeamSize          = "5"
	Temperature       = "0.0"
	SegmentResolution = "sentence"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// Command names for external tools.
const (
	UVXCommand    = "uvx"
	FFmpegCommand = "ffmpeg"
)

var knownModels = []string{
	"tiny", "tiny.en",
	"base", "base.en",
	"small", "small.en",
	"medium", "medium.en",
	"large", "large-v1", "large-v2", "large-v3",
	"large-v3-turbo", "turbo",
}

// KnownModels lists the model names WhisperX can download.
func KnownModels() []string {
	return slices.Clone(knownModels)
}

// IsKnownModel reports whether name is a recognized model.
func IsKnownModel(name string) bool {
	return slices.Contains(knownModels, strings.ToLower(strings.TrimSpace(name)))
}
