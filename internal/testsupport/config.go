package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subtitler/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose directories all live under a fresh temp
// dir. Directories are not created; call EnsureDirectories when needed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithOutputDir routes subtitle files to a dedicated temp directory.
func WithOutputDir() ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "output")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir output dir: %v", err)
		}
		b.cfg.Paths.OutputDir = dir
	}
}

// WithoutCache disables the transcript cache.
func WithoutCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.CacheEnabled = false
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the external tools a transcription
// needs are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "uvx"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
