package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes ffprobe and returns its stdout. Tests substitute a fake.
type Runner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Prober inspects media files.
type Prober struct {
	binary string
	runner Runner
}

// New returns a Prober for binary ("ffprobe" when empty). A nil runner
// executes the binary directly.
func New(binary string, runner Runner) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if runner == nil {
		runner = execRunner
	}
	return &Prober{binary: binary, runner: runner}
}

// Inspect runs ffprobe against path and decodes the JSON response.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	output, err := p.runner(ctx, p.binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return output, nil
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// HasAudio reports whether the container carries at least one audio stream.
func (r Result) HasAudio() bool {
	return r.AudioStreamCount() > 0
}

// DurationSeconds returns the container duration in seconds, falling back to
// the longest stream. Returns 0 when nothing usable is reported.
func (r Result) DurationSeconds() float64 {
	if d := parseFloat(r.Format.Duration); d > 0 {
		return d
	}
	longest := 0.0
	for _, stream := range r.Streams {
		if d := parseFloat(stream.Duration); d > longest {
			longest = d
		}
	}
	return longest
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}
