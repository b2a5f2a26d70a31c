package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subtitler/internal/config"
	"subtitler/internal/services"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, ".local", "share", "subtitler", "work"); cfg.Paths.WorkDir != want {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, want)
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.LockPath() != filepath.Join(tempHome, ".local", "state", "subtitler", "subtitler.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Transcription.Model != "small" {
		t.Fatalf("expected default model small, got %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.VADMethod != "silero" {
		t.Fatalf("expected silero VAD, got %q", cfg.Transcription.VADMethod)
	}
	if !cfg.Transcription.CacheEnabled || !cfg.Transcription.FilterHallucinations {
		t.Fatal("expected cache and hallucination filter enabled by default")
	}
	if cfg.Subtitles.Format != "srt" || cfg.Subtitles.CharThreshold != 160 || cfg.Subtitles.ExtendSeconds != 0 {
		t.Fatalf("unexpected subtitle defaults: %+v", cfg.Subtitles)
	}
	if cfg.Subtitles.Merge {
		t.Fatal("expected merge disabled by default")
	}
	if cfg.Download.YtDlpBinary != "yt-dlp" || !cfg.Download.Playlist {
		t.Fatalf("unexpected download defaults: %+v", cfg.Download)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.ToSlash(filepath.Join(dir, "subs")) + `"

[transcription]
model = "Medium.en"
language = "English"
workers = 3

[subtitles]
format = ".VTT"
extend_seconds = 0.5
merge = true
char_threshold = 120

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "subs") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Transcription.Model != "medium.en" || cfg.Transcription.Workers != 3 {
		t.Fatalf("unexpected transcription: %+v", cfg.Transcription)
	}
	if cfg.Subtitles.Format != "vtt" || cfg.Subtitles.ExtendSeconds != 0.5 || !cfg.Subtitles.Merge || cfg.Subtitles.CharThreshold != 120 {
		t.Fatalf("unexpected subtitles: %+v", cfg.Subtitles)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{"unknown model", "[transcription]\nmodel = \"gigantic\"\n", "transcription.model"},
		{"unknown language", "[transcription]\nlanguage = \"zz9\"\n", "transcription.language"},
		{"pyannote without token", "[transcription]\nvad_method = \"pyannote\"\n", "transcription.hf_token"},
		{"bad vad", "[transcription]\nvad_method = \"webrtc\"\n", "transcription.vad_method"},
		{"too many workers", "[transcription]\nworkers = 64\n", "transcription.workers"},
		{"bad format", "[subtitles]\nformat = \"ass\"\n", "subtitles.format"},
		{"negative extend", "[subtitles]\nextend_seconds = -1.0\n", "subtitles.extend_seconds"},
		{"negative threshold", "[subtitles]\nchar_threshold = -5\n", "subtitles.char_threshold"},
		{"bad audio format", "[download]\naudio_format = \"aiff\"\n", "download.audio_format"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"unknown key", "[subtitles]\nglue = true\n", "subtitles.glue"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantKey) {
				t.Fatalf("expected error to name %q, got %v", tc.wantKey, err)
			}
		})
	}
}

func TestHuggingFaceTokenFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Setenv("HF_TOKEN", "hf_test")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[transcription]\nvad_method = \"pyannote\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.HFToken != "hf_test" {
		t.Fatalf("expected token from env, got %q", cfg.Transcription.HFToken)
	}
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(encoded, "hf_test") {
		t.Fatal("expected token redacted in encoded config")
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load cleanly, exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.StateDir, cfg.Paths.LogDir, cfg.Paths.CacheDir, cfg.Paths.OutputDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
