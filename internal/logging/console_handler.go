package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const logTimestampLayout = "2006-01-02 15:04:05"

// prettyHandler renders one header line per record followed by indented
// key/value fields. Component, item index and media path move into the
// header; session and run ids are only printed at debug level.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     slog.Level
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl slog.Level, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level {
		return nil
	}
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})
	kvs = dedupeKVsByKey(kvs)

	var component, item, media string
	fields := make([]kv, 0, len(kvs))
	debug := record.Level < slog.LevelInfo
	for _, f := range kvs {
		switch f.key {
		case FieldComponent:
			component = attrString(f.value)
			continue
		case FieldItemIndex:
			item = attrString(f.value)
			continue
		case FieldMedia:
			media = attrString(f.value)
			continue
		case FieldSessionID, FieldRunID:
			if !debug {
				continue
			}
		}
		fields = append(fields, f)
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(fields)*32)
	buf.WriteString(ts.In(time.Local).Format(logTimestampLayout))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	if component != "" {
		buf.WriteString(" [")
		buf.WriteString(component)
		buf.WriteByte(']')
	}
	if subject := composeSubject(item, media); subject != "" {
		buf.WriteByte(' ')
		buf.WriteString(subject)
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(" – ")
		buf.WriteString(msg)
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')
	for _, f := range fields {
		buf.WriteString("    - ")
		buf.WriteString(f.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(f.value))
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func composeSubject(item, media string) string {
	parts := make([]string, 0, 2)
	if item != "" {
		parts = append(parts, "#"+item)
	}
	if media != "" {
		parts = append(parts, filepath.Base(media))
	}
	return strings.Join(parts, " ")
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	return &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		addSource: h.addSource,
		attrs:     append([]slog.Attr(nil), h.attrs...),
		groups:    append([]string(nil), h.groups...),
	}
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key and the last value.
func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return formatValue(v)
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().In(time.Local).Format(logTimestampLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < ' ' || r == '"' {
			return true
		}
	}
	return false
}
