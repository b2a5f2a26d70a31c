package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"subtitler/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// OutputDir receives subtitle files. Empty writes them beside each input.
	OutputDir   string `toml:"output_dir"`
	WorkDir     string `toml:"work_dir"`
	DownloadDir string `toml:"download_dir"`
	CacheDir    string `toml:"cache_dir"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
}

// Transcription contains WhisperX settings.
type Transcription struct {
	Model    string `toml:"model"`
	Language string `toml:"language"`
	// VADMethod is "silero" or "pyannote"; pyannote needs HFToken.
	VADMethod            string `toml:"vad_method"`
	HFToken              string `toml:"hf_token"`
	CUDAEnabled          bool   `toml:"cuda_enabled"`
	CacheEnabled         bool   `toml:"cache_enabled"`
	FilterHallucinations bool   `toml:"filter_hallucinations"`
	Workers              int    `toml:"workers"`
}

// Subtitles contains output formatting settings.
type Subtitles struct {
	Format        string  `toml:"format"`
	ExtendSeconds float64 `toml:"extend_seconds"`
	Merge         bool    `toml:"merge"`
	CharThreshold int     `toml:"char_threshold"`
}

// Download contains yt-dlp settings for URL inputs.
type Download struct {
	YtDlpBinary string `toml:"ytdlp_binary"`
	AudioFormat string `toml:"audio_format"`
	Playlist    bool   `toml:"playlist"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subtitler.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Download      Download      `toml:"download"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded. Errors are tagged with
// services.ErrConfiguration.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "resolve", "locate config file", err)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", describeDecodeError(err), nil)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "normalize", "", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}

	return &cfg, resolvedPath, exists, nil
}

// describeDecodeError names the offending key and position for TOML errors.
func describeDecodeError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("line %d column %d: %s", row, col, decodeErr.Error())
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		keys := make([]string, 0, len(strictErr.Errors))
		for _, e := range strictErr.Errors {
			keys = append(keys, strings.Join(e.Key(), "."))
		}
		return "unknown keys: " + strings.Join(keys, ", ")
	}
	return err.Error()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a transcription run writes to.
// The output directory is created only when configured.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir, c.Paths.StateDir, c.Paths.LogDir}
	if c.Transcription.CacheEnabled {
		dirs = append(dirs, c.Paths.CacheDir)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		dirs = append(dirs, c.Paths.OutputDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrIO, "config", "ensure directories", fmt.Sprintf("create %q", dir), err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used to inspect media.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// UVXBinary returns the uv tool runner that launches WhisperX.
func (c *Config) UVXBinary() string {
	return "uvx"
}

// CachePath returns the transcript cache database location.
func (c *Config) CachePath() string {
	return filepath.Join(c.Paths.CacheDir, cacheFileName)
}

// LockPath returns the batch lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, lockFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	redacted := *c
	if redacted.Transcription.HFToken != "" {
		redacted.Transcription.HFToken = "********"
	}
	data, err := toml.Marshal(redacted)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
