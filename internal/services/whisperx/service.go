package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "subtitler/internal/language"
	"subtitler/internal/logging"
	"subtitler/internal/services"
	"subtitler/internal/subtitles"
)

// CommandRunner executes an external command. Tests substitute a fake.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner CommandRunner
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if strings.TrimSpace(cfg.FFmpegBinary) == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "whisperx"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.commandRunner = runner
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	// Force legacy behavior so WhisperX can load its checkpoints.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, lastLines(string(output), 5))
	}
	return nil
}

// Transcribe extracts the first audio stream of mediaPath, runs WhisperX on
// it and returns the timed segments in order. Failures wrap
// services.ErrTranscription; a cancelled context is reported as such.
func (s *Service) Transcribe(ctx context.Context, mediaPath string, opts Options) ([]subtitles.Segment, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "whisperx", "transcribe", "media path required", nil)
	}
	if strings.TrimSpace(opts.WorkDir) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "whisperx", "transcribe", "work dir required", nil)
	}
	if err := os.MkdirAll(opts.WorkDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "whisperx", "transcribe", "ensure work dir", err)
	}

	audioPath := filepath.Join(opts.WorkDir, "audio.wav")
	s.logger.Debug("extracting audio", logging.String("source", mediaPath), logging.String("dest", audioPath))
	if err := s.run(ctx, s.cfg.FFmpegBinary, buildFFmpegExtractArgs(mediaPath, audioPath)...); err != nil {
		return nil, s.wrapRunError(ctx, "extract audio", err)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	s.logger.Info("transcribing",
		logging.String("model", model),
		logging.String("language", langpkg.DisplayName(opts.Language)),
		logging.Bool("cuda", s.cfg.CUDAEnabled),
	)
	if err := s.run(ctx, UVXCommand, s.buildArgs(audioPath, opts.WorkDir, model, opts.Language)...); err != nil {
		return nil, s.wrapRunError(ctx, "run whisperx", err)
	}

	jsonPath := filepath.Join(opts.WorkDir, "audio.json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "whisperx", "load output", jsonPath, err)
	}
	return segments, nil
}

func (s *Service) wrapRunError(ctx context.Context, operation string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return services.Wrap(services.ErrTranscription, "whisperx", operation, "cancelled", ctxErr)
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return services.Wrap(services.ErrExternalTool, "whisperx", operation, "tool not available", err)
	}
	return services.Wrap(services.ErrTranscription, "whisperx", operation, "", err)
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, model, language string) []string {
	args := make([]string, 0, 40)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
		"--print_progress", "False",
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

// whisperXSegment is one entry of the WhisperX JSON output.
type whisperXSegment struct {
	Text  *string  `json:"text"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []whisperXSegment `json:"segments"`
}

// LoadSegments reads segments from a WhisperX JSON file. Entries without
// timing are skipped; text is trimmed.
func LoadSegments(jsonPath string) ([]subtitles.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	segments := make([]subtitles.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		if seg.Start == nil || seg.End == nil {
			continue
		}
		text := ""
		if seg.Text != nil {
			text = strings.TrimSpace(*seg.Text)
		}
		segments = append(segments, subtitles.Segment{Start: *seg.Start, End: *seg.End, Text: text})
	}
	return segments, nil
}

func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
