package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subtitler/internal/logging"
	"subtitler/internal/services"
)

// OutputTemplate names downloaded files after their title and id.
const OutputTemplate = "%(title).120B [%(id)s].%(ext)s"

// AudioFormatBest keeps whatever audio codec the source offers.
const AudioFormatBest = "best"

// Runner executes yt-dlp and returns its stdout. Tests substitute a fake.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Config selects the yt-dlp binary and download behaviour.
type Config struct {
	Binary      string
	AudioFormat string
	Playlist    bool
}

// Service downloads media for transcription.
type Service struct {
	cfg    Config
	logger *slog.Logger
	runner Runner
}

// New constructs a yt-dlp service.
func New(cfg Config, logger *slog.Logger) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "yt-dlp"
	}
	if strings.TrimSpace(cfg.AudioFormat) == "" {
		cfg.AudioFormat = "m4a"
	}
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "ytdlp"),
		runner: execRunner,
	}
}

// WithRunner swaps the command runner (for testing).
func (s *Service) WithRunner(runner Runner) {
	if runner != nil {
		s.runner = runner
	}
}

// Download fetches url (a single video or a playlist) into destDir and
// returns the downloaded file paths in the order yt-dlp reported them.
func (s *Service) Download(ctx context.Context, url, destDir string) ([]string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "ytdlp", "download", "empty url", nil)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "ytdlp", "download", "ensure download dir", err)
	}

	s.logger.Info("downloading media", logging.String("url", url), logging.Bool("playlist", s.cfg.Playlist))
	out, err := s.runner(ctx, s.cfg.Binary, s.buildArgs(url, destDir)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, services.Wrap(services.ErrExternalTool, "ytdlp", "download", "cancelled", ctxErr)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, services.Wrap(services.ErrExternalTool, "ytdlp", "download", "yt-dlp not available", err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "ytdlp", "download", url, err)
	}

	paths := parsePaths(out)
	if len(paths) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "ytdlp", "download", "no media downloaded for "+url, nil)
	}
	s.logger.Debug("download complete", logging.Int("files", len(paths)))
	return paths, nil
}

func (s *Service) buildArgs(url, destDir string) []string {
	args := []string{
		"--no-progress",
		"--no-simulate",
		"--restrict-filenames",
		"--output", filepath.Join(destDir, OutputTemplate),
		"--print", "after_move:filepath",
		"--extract-audio",
	}
	if format := strings.ToLower(strings.TrimSpace(s.cfg.AudioFormat)); format != AudioFormatBest {
		args = append(args, "--audio-format", format)
	}
	if s.cfg.Playlist {
		args = append(args, "--yes-playlist")
	} else {
		args = append(args, "--no-playlist")
	}
	return append(args, "--", url)
}

// parsePaths keeps the lines that look like file paths; yt-dlp may interleave
// warnings on stdout.
func parsePaths(out []byte) []string {
	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "WARNING:") || strings.HasPrefix(line, "[") {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
