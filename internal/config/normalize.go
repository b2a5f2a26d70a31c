package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeSubtitles()
	c.normalizeDownload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.output_dir", &c.Paths.OutputDir, ""},
		{"paths.work_dir", &c.Paths.WorkDir, defaultWorkDir},
		{"paths.download_dir", &c.Paths.DownloadDir, defaultDownloadDir},
		{"paths.cache_dir", &c.Paths.CacheDir, defaultCacheDir},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, f := range fields {
		trimmed := strings.TrimSpace(*f.value)
		if trimmed == "" {
			trimmed = f.fallback
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.value = expanded
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Model = strings.ToLower(strings.TrimSpace(t.Model))
	if t.Model == "" {
		t.Model = defaultModel
	}
	t.Language = strings.TrimSpace(t.Language)
	if strings.EqualFold(t.Language, "auto") {
		t.Language = ""
	}
	t.VADMethod = strings.ToLower(strings.TrimSpace(t.VADMethod))
	if t.VADMethod == "" {
		t.VADMethod = defaultVADMethod
	}
	t.HFToken = strings.TrimSpace(t.HFToken)
	if t.HFToken == "" {
		for _, key := range []string{"HUGGING_FACE_HUB_TOKEN", "HF_TOKEN"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				t.HFToken = strings.TrimSpace(value)
				break
			}
		}
	}
	if t.Workers == 0 {
		t.Workers = defaultWorkers
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Subtitles.Format)), ".")
	if c.Subtitles.Format == "" {
		c.Subtitles.Format = defaultFormat
	}
	if c.Subtitles.CharThreshold == 0 {
		c.Subtitles.CharThreshold = defaultCharThreshold
	}
}

func (c *Config) normalizeDownload() {
	c.Download.YtDlpBinary = strings.TrimSpace(c.Download.YtDlpBinary)
	if c.Download.YtDlpBinary == "" {
		c.Download.YtDlpBinary = defaultYtDlpBinary
	}
	c.Download.AudioFormat = strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
	if c.Download.AudioFormat == "" {
		c.Download.AudioFormat = defaultAudioFormat
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
