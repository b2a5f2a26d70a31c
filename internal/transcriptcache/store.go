package transcriptcache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"subtitler/internal/fileutil"
	"subtitler/internal/logging"
	"subtitler/internal/services"
	"subtitler/internal/subtitles"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes.
const schemaVersion = 1

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// ErrSchemaMismatch indicates a cache written by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store is the SQLite-backed transcript cache.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Entry is a cached transcription.
type Entry struct {
	MediaPath string
	Model     string
	Language  string
	Segments  []subtitles.Segment
	CreatedAt time.Time
}

// Stats summarizes cache contents.
type Stats struct {
	Path     string
	Entries  int
	Segments int
	Bytes    int64
	Oldest   time.Time
	Newest   time.Time
}

// Key derives the cache key for a media file transcribed with model and language.
func Key(fp fileutil.Fingerprint, model, language string) string {
	return fp.Key(strings.ToLower(strings.TrimSpace(model)), strings.ToLower(strings.TrimSpace(language)))
}

// Open creates or connects to the cache database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "transcriptcache", "open", "ensure cache dir", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "transcriptcache", "open", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrIO, "transcriptcache", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logging.NewComponentLogger(logger, "transcriptcache")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists); err != nil {
		return services.Wrap(services.ErrIO, "transcriptcache", "init schema", "check schema_version table", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return services.Wrap(services.ErrIO, "transcriptcache", "init schema", "begin", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return services.Wrap(services.ErrIO, "transcriptcache", "init schema", "create", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return services.Wrap(services.ErrIO, "transcriptcache", "init schema", "record version", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return services.Wrap(services.ErrIO, "transcriptcache", "init schema", "read version", err)
	}
	if version != schemaVersion {
		return services.Wrap(services.ErrConfiguration, "transcriptcache", "init schema",
			fmt.Sprintf("database has version %d, expected %d (run 'subtitler cache clear' or delete %s)", version, schemaVersion, s.path),
			ErrSchemaMismatch)
	}
	return nil
}

// Get returns the cached segments for key.
func (s *Store) Get(ctx context.Context, key string) (Entry, bool, error) {
	ctx = ensureContext(ctx)
	var (
		entry   Entry
		payload string
		created string
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT media_path, model, language, segments, created_at FROM transcripts WHERE cache_key = ?`, key,
		).Scan(&entry.MediaPath, &entry.Model, &entry.Language, &payload, &created)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, services.Wrap(services.ErrIO, "transcriptcache", "get", "", err)
	}
	if err := json.Unmarshal([]byte(payload), &entry.Segments); err != nil {
		// A corrupt row is a miss; the next Put replaces it.
		s.logger.Warn("discarding unreadable cache entry",
			logging.String(logging.FieldEventType, "transcript_cache_corrupt"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'subtitler cache clear' if this repeats"),
			logging.String(logging.FieldImpact, "media will be transcribed again"))
		return Entry{}, false, nil
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return entry, true, nil
}

// Put stores or replaces the entry for key.
func (s *Store) Put(ctx context.Context, key string, entry Entry) error {
	ctx = ensureContext(ctx)
	payload, err := json.Marshal(entry.Segments)
	if err != nil {
		return services.Wrap(services.ErrIO, "transcriptcache", "put", "encode segments", err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, `
			INSERT INTO transcripts (cache_key, media_path, model, language, segments, segment_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(cache_key) DO UPDATE SET
				media_path = excluded.media_path,
				model = excluded.model,
				language = excluded.language,
				segments = excluded.segments,
				segment_count = excluded.segment_count,
				created_at = excluded.created_at`,
			key, entry.MediaPath, entry.Model, entry.Language, string(payload), len(entry.Segments),
			entry.CreatedAt.UTC().Format(time.RFC3339Nano))
		return execErr
	})
	if err != nil {
		return services.Wrap(services.ErrIO, "transcriptcache", "put", "", err)
	}
	return nil
}

// Stats reports the number of entries and their footprint.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{Path: s.path}
	var (
		segments sql.NullInt64
		bytes    sql.NullInt64
		oldest   sql.NullString
		newest   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), SUM(segment_count), SUM(LENGTH(segments)), MIN(created_at), MAX(created_at) FROM transcripts`,
	).Scan(&stats.Entries, &segments, &bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, services.Wrap(services.ErrIO, "transcriptcache", "stats", "", err)
	}
	stats.Segments = int(segments.Int64)
	stats.Bytes = bytes.Int64
	if oldest.Valid {
		stats.Oldest, _ = time.Parse(time.RFC3339Nano, oldest.String)
	}
	if newest.Valid {
		stats.Newest, _ = time.Parse(time.RFC3339Nano, newest.String)
	}
	return stats, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, `DELETE FROM transcripts`)
		if execErr != nil {
			return execErr
		}
		removed, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return 0, services.Wrap(services.ErrIO, "transcriptcache", "clear", "", err)
	}
	return removed, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
