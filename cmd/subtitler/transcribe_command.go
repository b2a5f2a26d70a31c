package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subtitler/internal/config"
	"subtitler/internal/deps"
	"subtitler/internal/logging"
	"subtitler/internal/media"
	"subtitler/internal/media/ffprobe"
	"subtitler/internal/pipeline"
	"subtitler/internal/preflight"
	"subtitler/internal/services"
	"subtitler/internal/services/whisperx"
	"subtitler/internal/services/ytdlp"
	"subtitler/internal/transcriptcache"
)

type transcribeFlags struct {
	outputDir string
	format    string
	model     string
	language  string
	extend    float64
	merge     bool
	threshold int
	workers   int
	noCache   bool
	keepWork  bool
	cuda      bool
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var flags transcribeFlags

	cmd := &cobra.Command{
		Use:   "transcribe <file|folder|url>...",
		Short: "Transcribe media and write subtitle files",
		Long: "Transcribe runs WhisperX on each input and writes one subtitle file per media file.\n" +
			"Inputs may be media files, folders (their direct media children) or http(s) URLs,\n" +
			"which are downloaded with yt-dlp. Subtitles go beside each file unless --output is set.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyTranscribeFlags(cmd, cfg, flags); err != nil {
				return err
			}

			logger, err := ctx.newLogger(cmd, cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			statuses := preflight.CheckSystemDeps(cfg)
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return services.Wrap(services.ErrExternalTool, "cli", "preflight",
					"missing required tools: "+strings.Join(missing, ", ")+" (run 'subtitler status')", nil)
			}
			if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "cli", "preflight",
					fmt.Sprintf("%s: %s", failed[0].Name, failed[0].Detail), nil)
			}

			downloader := ytdlp.New(ytdlp.Config{
				Binary:      cfg.Download.YtDlpBinary,
				AudioFormat: cfg.Download.AudioFormat,
				Playlist:    cfg.Download.Playlist,
			}, logger)
			resolution, err := media.NewResolver(downloader, cfg.Paths.DownloadDir, logger).Resolve(cmd.Context(), args)
			if err != nil {
				return err
			}

			opts, err := pipeline.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			opts.KeepWorkFiles = flags.keepWork

			transcriber := whisperx.NewService(whisperx.Config{
				CUDAEnabled:  cfg.Transcription.CUDAEnabled,
				VADMethod:    cfg.Transcription.VADMethod,
				HFToken:      cfg.Transcription.HFToken,
				FFmpegBinary: cfg.FFmpegBinary(),
			}, logger)

			runnerOpts := runnerOptions(cfg, statuses, logger)
			if cfg.Transcription.CacheEnabled {
				cache, err := transcriptcache.Open(cfg.CachePath(), logger)
				if err != nil {
					logging.WarnWithContext(logger, "transcript cache unavailable", "cache_open_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "run 'subtitler cache clear' or delete "+cfg.CachePath()),
						logging.String(logging.FieldImpact, "every item will be transcribed"))
				} else {
					defer cache.Close()
					runnerOpts = append(runnerOpts, pipeline.WithCache(cache))
				}
			}

			runner, err := pipeline.NewRunner(opts, transcriber, logger, runnerOpts...)
			if err != nil {
				return err
			}
			summary, err := runner.Run(cmd.Context(), resolution.Items)
			if err != nil {
				return err
			}
			summary.AddUnresolved(resolution.Failures)
			printSummary(cmd.OutOrStdout(), summary, shouldColorize(cmd.OutOrStdout()))
			return summary.Err()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.outputDir, "output", "o", "", "Directory for subtitle files (default: beside each media file)")
	f.StringVarP(&flags.format, "format", "f", "", "Subtitle format: srt or vtt")
	f.StringVarP(&flags.model, "model", "m", "", "WhisperX model ("+strings.Join(whisperx.KnownModels(), ", ")+")")
	f.StringVarP(&flags.language, "language", "l", "", "Spoken language name or code (default: auto-detect)")
	f.Float64VarP(&flags.extend, "extend", "p", 0, "Seconds added to each cue end, clamped to the next cue start")
	f.BoolVar(&flags.merge, "merge", false, "Merge fragments into sentence-complete cues")
	f.IntVar(&flags.threshold, "threshold", 0, "Character threshold used with --merge")
	f.IntVarP(&flags.workers, "workers", "j", 0, "Media files processed in parallel")
	f.BoolVar(&flags.noCache, "no-cache", false, "Ignore the transcript cache")
	f.BoolVar(&flags.keepWork, "keep-work", false, "Keep extracted audio and WhisperX output")
	f.BoolVar(&flags.cuda, "cuda", false, "Run WhisperX on the GPU")
	return cmd
}

// applyTranscribeFlags overlays explicitly set flags on cfg and re-validates.
func applyTranscribeFlags(cmd *cobra.Command, cfg *config.Config, flags transcribeFlags) error {
	changed := cmd.Flags().Changed
	if changed("output") {
		dir, err := config.ExpandPath(flags.outputDir)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "cli", "flags", "--output", err)
		}
		cfg.Paths.OutputDir = dir
	}
	if changed("format") {
		cfg.Subtitles.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(flags.format)), ".")
	}
	if changed("model") {
		cfg.Transcription.Model = strings.TrimSpace(flags.model)
	}
	if changed("language") {
		lang := strings.TrimSpace(flags.language)
		if strings.EqualFold(lang, "auto") {
			lang = ""
		}
		cfg.Transcription.Language = lang
	}
	if changed("extend") {
		cfg.Subtitles.ExtendSeconds = flags.extend
	}
	if changed("merge") {
		cfg.Subtitles.Merge = flags.merge
	}
	if changed("threshold") {
		cfg.Subtitles.CharThreshold = flags.threshold
	}
	if changed("workers") {
		cfg.Transcription.Workers = flags.workers
	}
	if changed("cuda") {
		cfg.Transcription.CUDAEnabled = flags.cuda
	}
	if flags.noCache {
		cfg.Transcription.CacheEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "flags", "", err)
	}
	return cfg.EnsureDirectories()
}

// runnerOptions enables media probing when ffprobe is installed.
func runnerOptions(cfg *config.Config, statuses []deps.Status, logger *slog.Logger) []pipeline.Option {
	for _, status := range statuses {
		if status.Name == "FFprobe" && status.Available {
			return []pipeline.Option{pipeline.WithProber(ffprobe.New(cfg.FFprobeBinary(), nil))}
		}
	}
	logger.Debug("ffprobe not found; skipping audio and duration checks")
	return nil
}

func printSummary(out io.Writer, summary pipeline.Summary, colorize bool) {
	rows := make([][]string, 0, len(summary.Results))
	for i, res := range summary.Results {
		kind := statusOK
		detail := res.Output
		switch {
		case res.Err != nil:
			kind = statusError
			detail = res.Status() + ": " + res.Err.Error()
		case len(res.Issues) > 0:
			kind = statusWarn
			detail = res.Output + " (" + strings.Join(res.Issues, ", ") + ")"
		}
		cached := ""
		if res.Cached {
			cached = "cached"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			filepath.Base(res.Item.Path),
			statusCell(kind, colorize),
			strconv.Itoa(res.Cues),
			cached,
			res.Elapsed.Round(time.Second).String(),
			detail,
		})
	}
	fmt.Fprintln(out, tableView{
		headers: []string{"#", "Media", "Status", "Cues", "Source", "Time", "Output"},
		rows:    rows,
		numeric: []int{0, 3, 5},
	}.render())
	fmt.Fprintf(out, "%d succeeded, %d failed in %s (run %s)\n",
		summary.Succeeded(), summary.Failed(), summary.Elapsed.Round(time.Second), summary.RunID)
}
