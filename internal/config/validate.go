package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"subtitler/internal/language"
	"subtitler/internal/services/whisperx"
	"subtitler/internal/subtitles/cuefile"
)

// Validate ensures the configuration is usable. Errors name the offending key.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	if !whisperx.IsKnownModel(t.Model) {
		return fmt.Errorf("transcription.model %q is not recognized (known: %s)", t.Model, strings.Join(whisperx.KnownModels(), ", "))
	}
	if t.Language != "" && !language.Known(t.Language) {
		return fmt.Errorf("transcription.language %q is not a recognized language code", t.Language)
	}
	switch t.VADMethod {
	case whisperx.VADMethodSilero:
	case whisperx.VADMethodPyannote:
		if t.HFToken == "" {
			return errors.New("transcription.hf_token is required when transcription.vad_method is pyannote (or set HF_TOKEN)")
		}
	default:
		return fmt.Errorf("transcription.vad_method %q must be silero or pyannote", t.VADMethod)
	}
	if t.Workers < 1 || t.Workers > maxWorkers {
		return fmt.Errorf("transcription.workers must be between 1 and %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if _, err := cuefile.ParseFormat(c.Subtitles.Format); err != nil {
		return fmt.Errorf("subtitles.format: %w", err)
	}
	if math.IsNaN(c.Subtitles.ExtendSeconds) || math.IsInf(c.Subtitles.ExtendSeconds, 0) || c.Subtitles.ExtendSeconds < 0 {
		return errors.New("subtitles.extend_seconds must be a non-negative number")
	}
	if c.Subtitles.CharThreshold < 1 {
		return errors.New("subtitles.char_threshold must be positive")
	}
	return nil
}

func (c *Config) validateDownload() error {
	switch c.Download.AudioFormat {
	case "m4a", "mp3", "opus", "wav", "flac", "best":
		return nil
	default:
		return fmt.Errorf("download.audio_format %q must be one of m4a, mp3, opus, wav, flac, best", c.Download.AudioFormat)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
