package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"subtitler/internal/config"
	"subtitler/internal/services"
	"subtitler/internal/subtitles/cuefile"
)

// Options configures a batch run.
type Options struct {
	Model    string `validate:"required"`
	Language string
	// Format selects the cue file written for each item.
	Format cuefile.Format `validate:"oneof=srt vtt"`
	// OutputDir receives cue files; empty writes them beside the media.
	OutputDir string
	// WorkDir holds per-item scratch files and is required.
	WorkDir string `validate:"required"`
	// Extend pushes cue ends forward, clamped to the next cue start.
	Extend float64 `validate:"gte=0"`
	// Merge folds fragments into sentence-complete cues before timing.
	Merge         bool
	CharThreshold int `validate:"gte=1"`
	// FilterHallucinations drops stock WhisperX artifacts.
	FilterHallucinations bool
	Workers              int `validate:"gte=1,lte=8"`
	// LockPath guards against concurrent batches; empty disables locking.
	LockPath string
	// KeepWorkFiles leaves extracted audio and WhisperX output on disk.
	KeepWorkFiles bool
}

var validate = validator.New()

// OptionsFromConfig maps configuration onto batch options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	format, err := cuefile.ParseFormat(cfg.Subtitles.Format)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Model:                cfg.Transcription.Model,
		Language:             cfg.Transcription.Language,
		Format:               format,
		OutputDir:            cfg.Paths.OutputDir,
		WorkDir:              cfg.Paths.WorkDir,
		Extend:               cfg.Subtitles.ExtendSeconds,
		Merge:                cfg.Subtitles.Merge,
		CharThreshold:        cfg.Subtitles.CharThreshold,
		FilterHallucinations: cfg.Transcription.FilterHallucinations,
		Workers:              cfg.Transcription.Workers,
		LockPath:             cfg.LockPath(),
	}, nil
}

// Validate checks the options, naming every offending field.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.Wrap(services.ErrConfiguration, "pipeline", "validate options", "", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeFieldError(fe))
	}
	return services.Wrap(services.ErrConfiguration, "pipeline", "validate options", strings.Join(problems, "; "), nil)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
