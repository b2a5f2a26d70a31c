package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogFileName is the file written inside the configured log directory.
const LogFileName = "subtitler.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives console output; stderr when nil.
	Writer io.Writer
	// SessionID is stamped on every record when non-empty.
	SessionID   string
	Development bool
}

func (o Options) addSource(level slog.Level) bool {
	return o.Development || level <= slog.LevelDebug
}

func (o Options) stamp() []slog.Attr {
	if id := strings.TrimSpace(o.SessionID); id != "" {
		return []slog.Attr{slog.String(FieldSessionID, id)}
	}
	return nil
}

// New constructs a logger writing to opts.Writer in the requested format
// ("console", the default, or "json").
func New(opts Options) (*slog.Logger, error) {
	sink, err := consoleSink(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(newRunHandler([]slog.Handler{sink}, opts.stamp()...)), nil
}

// NewWithLogDir behaves like New and additionally appends JSON lines to
// subtitler.log inside logDir when logDir is non-empty.
func NewWithLogDir(logDir string, opts Options) (*slog.Logger, error) {
	console, err := consoleSink(opts)
	if err != nil {
		return nil, err
	}
	sinks := []slog.Handler{console}
	if dir := strings.TrimSpace(logDir); dir != "" {
		file, err := openLogFile(dir)
		if err != nil {
			return nil, err
		}
		level := parseLevel(opts.Level)
		sinks = append(sinks, newJSONHandler(file, level, opts.addSource(level)))
	}
	return slog.New(newRunHandler(sinks, opts.stamp()...)), nil
}

func consoleSink(opts Options) (slog.Handler, error) {
	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}
	level := parseLevel(opts.Level)
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		return newPrettyHandler(out, level, opts.addSource(level)), nil
	case "json":
		return newJSONHandler(out, level, opts.addSource(level)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	path := filepath.Join(dir, LogFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newJSONHandler renders records with a UTC "ts", a lower-case level and a
// short file:line source.
func newJSONHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	})
}
