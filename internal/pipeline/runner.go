package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subtitler/internal/fileutil"
	"subtitler/internal/logging"
	"subtitler/internal/media"
	"subtitler/internal/media/ffprobe"
	"subtitler/internal/services"
	"subtitler/internal/services/whisperx"
	"subtitler/internal/subtitles"
	"subtitler/internal/subtitles/cuefile"
	"subtitler/internal/transcriptcache"
)

// Transcriber produces timed segments for a media file.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string, opts whisperx.Options) ([]subtitles.Segment, error)
}

// Prober inspects media before transcription.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Cache stores transcripts between runs.
type Cache interface {
	Get(ctx context.Context, key string) (transcriptcache.Entry, bool, error)
	Put(ctx context.Context, key string, entry transcriptcache.Entry) error
}

// Option customizes a Runner.
type Option func(*Runner)

// WithCache enables transcript caching.
func WithCache(cache Cache) Option {
	return func(r *Runner) { r.cache = cache }
}

// WithProber enables media inspection before transcription.
func WithProber(prober Prober) Option {
	return func(r *Runner) { r.prober = prober }
}

// Runner processes batches of media items.
type Runner struct {
	opts        Options
	transcriber Transcriber
	prober      Prober
	cache       Cache
	logger      *slog.Logger
}

// NewRunner validates opts and builds a runner.
func NewRunner(opts Options, transcriber Transcriber, logger *slog.Logger, options ...Option) (*Runner, error) {
	if transcriber == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new runner", "transcriber required", nil)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		opts:        opts,
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Run processes items with up to Workers in parallel. The returned error is
// non-nil only when the batch could not start; per-item failures are in the
// Summary.
func (r *Runner) Run(ctx context.Context, items []media.Item) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	if len(items) == 0 {
		return summary, services.Wrap(services.ErrEmptyInput, "pipeline", "run", "no media items", nil)
	}

	if r.opts.LockPath != "" {
		if err := os.MkdirAll(filepath.Dir(r.opts.LockPath), 0o755); err != nil {
			return summary, services.Wrap(services.ErrIO, "pipeline", "acquire lock", "ensure state dir", err)
		}
		lock := flock.New(r.opts.LockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return summary, services.Wrap(services.ErrIO, "pipeline", "acquire lock", r.opts.LockPath, err)
		}
		if !ok {
			return summary, services.Wrap(services.ErrTransient, "pipeline", "acquire lock", "another subtitler batch is already running", nil)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				r.logger.Warn("failed to release batch lock", logging.Error(err))
			}
		}()
	}

	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("items", len(items)),
		logging.Int("workers", r.opts.Workers),
		logging.String("model", r.opts.Model),
		logging.String("format", string(r.opts.Format)),
	)

	if !r.opts.KeepWorkFiles {
		defer func() { _ = os.Remove(filepath.Join(r.opts.WorkDir, summary.RunID)) }()
	}

	summary.Results = make([]Result, len(items))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(r.opts.Workers, len(items)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				summary.Results[idx] = r.processItem(ctx, idx, items[idx])
			}
		}()
	}
	for idx := range items {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	summary.Elapsed = time.Since(start)
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (r *Runner) processItem(ctx context.Context, idx int, item media.Item) Result {
	started := time.Now()
	ctx = services.WithItemIndex(services.WithMediaPath(ctx, item.Path), idx+1)
	logger := logging.WithContext(ctx, r.logger)
	result := Result{Item: item}

	if err := ctx.Err(); err != nil {
		result.Err = services.Wrap(services.ErrTransient, "pipeline", "process", "batch cancelled", err)
		return result
	}

	output, err := r.produce(ctx, idx, item, &result, logger)
	result.Elapsed = time.Since(started)
	if err != nil {
		result.Err = err
		logger.Error("item failed",
			logging.String(logging.FieldEventType, "item_failed"),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err),
		)
		return result
	}
	result.Output = output
	logger.Info("subtitles written",
		logging.String(logging.FieldEventType, "item_complete"),
		logging.String("output", output),
		logging.Int("cues", result.Cues),
		logging.Bool("cached", result.Cached),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result
}

func (r *Runner) produce(ctx context.Context, idx int, item media.Item, result *Result, logger *slog.Logger) (string, error) {
	durationSeconds := 0.0
	if r.prober != nil {
		probe, err := r.prober.Inspect(ctx, item.Path)
		if err != nil {
			logging.WarnWithContext(logger, "media probe failed", "probe_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "install ffprobe to enable audio checks"),
				logging.String(logging.FieldImpact, "duration check skipped"))
		} else {
			if !probe.HasAudio() {
				return "", services.Wrap(services.ErrInvalidInput, "pipeline", "probe", "media has no audio stream", nil)
			}
			durationSeconds = probe.DurationSeconds()
		}
	}

	segments, cached, err := r.segments(ctx, idx, item, logger)
	if err != nil {
		return "", err
	}
	result.Cached = cached

	filtered := subtitles.FilterSegments(segments, subtitles.FilterOptions{DropHallucinations: r.opts.FilterHallucinations})
	result.Removed = len(filtered.Removals)
	for _, removal := range filtered.Removals {
		logger.Debug("segment dropped",
			logging.String("reason", removal.Reason),
			logging.Int("segment", removal.Index+1),
			logging.String("text", removal.Segment.Text),
		)
	}
	segments = filtered.Segments
	if len(segments) == 0 {
		return "", services.Wrap(services.ErrEmptyInput, "pipeline", "transcribe", "no speech recognized", nil)
	}

	if r.opts.Merge {
		segments, err = subtitles.MergeSegments(segments, r.opts.CharThreshold)
		if err != nil {
			return "", err
		}
	}

	list, err := subtitles.Convert(segments, subtitles.TimingOptions{Extend: r.opts.Extend})
	if err != nil {
		return "", err
	}
	result.Cues = list.Len()

	output := cuefile.OutputPath(item.Path, r.opts.OutputDir, r.opts.Format)
	if err := cuefile.Write(output, list, r.opts.Format); err != nil {
		return "", err
	}

	if issues := subtitles.Validate(list, durationSeconds); len(issues) > 0 {
		result.Issues = issues
		logging.WarnWithContext(logger, "subtitle validation issues", "subtitle_validation",
			logging.Any("issues", issues),
			logging.String("output", output),
			logging.String(logging.FieldErrorHint, "review the cue file before publishing"))
	}
	return output, nil
}

// segments returns the transcript for item, from cache when possible.
func (r *Runner) segments(ctx context.Context, idx int, item media.Item, logger *slog.Logger) ([]subtitles.Segment, bool, error) {
	var key string
	if r.cache != nil {
		fp, err := fileutil.Stat(item.Path)
		if err != nil {
			return nil, false, services.Wrap(services.ErrInvalidInput, "pipeline", "fingerprint", item.Path, err)
		}
		key = transcriptcache.Key(fp, r.opts.Model, r.opts.Language)
		entry, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("transcript cache lookup failed", logging.Error(err))
		} else if ok {
			logger.Debug("transcript cache hit", logging.Int("segments", len(entry.Segments)))
			return entry.Segments, true, nil
		}
	}

	runID, _ := services.RunIDFromContext(ctx)
	workDir := filepath.Join(r.opts.WorkDir, runID, fmt.Sprintf("%03d", idx+1))
	if !r.opts.KeepWorkFiles {
		defer func() {
			if err := os.RemoveAll(workDir); err != nil {
				logger.Debug("work dir cleanup failed", logging.Error(err))
			}
		}()
	}

	segments, err := r.transcriber.Transcribe(ctx, item.Path, whisperx.Options{
		Model:    r.opts.Model,
		Language: r.opts.Language,
		WorkDir:  workDir,
	})
	if err != nil {
		return nil, false, err
	}

	if r.cache != nil && len(segments) > 0 {
		entry := transcriptcache.Entry{
			MediaPath: item.Path,
			Model:     r.opts.Model,
			Language:  r.opts.Language,
			Segments:  segments,
		}
		if err := r.cache.Put(ctx, key, entry); err != nil {
			logger.Warn("transcript cache store failed", logging.Error(err))
		}
	}
	return segments, false, nil
}
