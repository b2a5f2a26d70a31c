package media

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"subtitler/internal/logging"
	"subtitler/internal/services"
)

// Extensions lists the file extensions picked up from folders.
var Extensions = []string{".mp4", ".mkv", ".mp3", ".wav", ".mpeg", ".m4a", ".webm", ".avi", ".mov", ".flac"}

// Downloader fetches remote media into a local directory.
type Downloader interface {
	Download(ctx context.Context, url, destDir string) ([]string, error)
}

// Item is one local media file queued for transcription.
type Item struct {
	// Path is the local file to transcribe.
	Path string
	// Source is the input argument that produced the item.
	Source string
	// Remote marks files fetched from a URL.
	Remote bool
}

// Resolver expands inputs into media items.
type Resolver struct {
	downloader  Downloader
	downloadDir string
	logger      *slog.Logger
}

// NewResolver builds a resolver. downloader may be nil when URLs are not
// expected; resolving one then fails with a configuration error.
func NewResolver(downloader Downloader, downloadDir string, logger *slog.Logger) *Resolver {
	return &Resolver{
		downloader:  downloader,
		downloadDir: downloadDir,
		logger:      logging.NewComponentLogger(logger, "media"),
	}
}

// Failure records an input that produced no media.
type Failure struct {
	Input string
	Err   error
}

// Resolution is the outcome of resolving a batch of inputs.
type Resolution struct {
	Items    []Item
	Failures []Failure
}

// Resolve expands every input in order. Duplicate paths are kept once. An
// input that yields no media is recorded as a failure and the remaining
// inputs are still resolved; Resolve only errors when nothing resolved or the
// context was cancelled.
func (r *Resolver) Resolve(ctx context.Context, inputs []string) (Resolution, error) {
	if len(inputs) == 0 {
		return Resolution{}, services.Wrap(services.ErrInvalidInput, "media", "resolve", "no inputs given", nil)
	}
	var res Resolution
	seen := make(map[string]struct{})
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return res, services.Wrap(services.ErrTransient, "media", "resolve", "cancelled", err)
		}
		resolved, err := r.resolveOne(ctx, input)
		if err != nil {
			logging.WarnWithContext(r.logger, "input skipped", "input_unresolved",
				logging.String("input", input),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the path or URL"),
				logging.String(logging.FieldImpact, "remaining inputs are still processed"))
			res.Failures = append(res.Failures, Failure{Input: strings.TrimSpace(input), Err: err})
			continue
		}
		for _, item := range resolved {
			if _, dup := seen[item.Path]; dup {
				continue
			}
			seen[item.Path] = struct{}{}
			res.Items = append(res.Items, item)
		}
	}
	if len(res.Items) == 0 {
		errs := make([]error, 0, len(res.Failures))
		for _, f := range res.Failures {
			errs = append(errs, f.Err)
		}
		return res, errors.Join(errs...)
	}
	return res, nil
}

func (r *Resolver) resolveOne(ctx context.Context, input string) ([]Item, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "media", "resolve", "empty input", nil)
	}
	if IsURL(input) {
		return r.download(ctx, input)
	}

	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrInvalidInput, "media", "resolve", "couldn't reach "+input, nil)
		}
		return nil, services.Wrap(services.ErrIO, "media", "resolve", input, err)
	}
	if !info.IsDir() {
		return []Item{{Path: input, Source: input}}, nil
	}

	paths, err := ScanDir(input)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "media", "resolve", "no media files in "+input, nil)
	}
	r.logger.Debug("scanned folder", logging.String("dir", input), logging.Int("files", len(paths)))
	items := make([]Item, 0, len(paths))
	for _, p := range paths {
		items = append(items, Item{Path: p, Source: input})
	}
	return items, nil
}

func (r *Resolver) download(ctx context.Context, input string) ([]Item, error) {
	if r.downloader == nil {
		return nil, services.Wrap(services.ErrConfiguration, "media", "resolve", "url inputs need a downloader", nil)
	}
	paths, err := r.downloader.Download(ctx, input, r.downloadDir)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(paths))
	for _, p := range paths {
		items = append(items, Item{Path: p, Source: input, Remote: true})
	}
	return items, nil
}

// ScanDir lists the direct children of dir with a media extension, sorted.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "media", "scan", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsMediaFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// IsMediaFile reports whether name carries a known media extension.
func IsMediaFile(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// IsURL reports whether input is an http or https URL.
func IsURL(input string) bool {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
