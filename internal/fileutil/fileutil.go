package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// WriteAtomic writes to a temporary file beside path and renames it into place
// once write succeeds. A failed write leaves any existing file untouched.
func WriteAtomic(path string, mode os.FileMode, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Fingerprint identifies a file by absolute path, size and modification time.
type Fingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Stat builds the fingerprint of the file at path.
func Stat(path string) (Fingerprint, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Fingerprint{}, err
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("%s is a directory", abs)
	}
	return Fingerprint{Path: abs, Size: info.Size(), ModTime: info.ModTime().UTC()}, nil
}

// Key hashes the fingerprint together with any extra qualifiers into a stable
// hex string.
func (f Fingerprint) Key(qualifiers ...string) string {
	h := sha256.New()
	_, _ = io.WriteString(h, f.Path)
	_, _ = io.WriteString(h, "\x00"+strconv.FormatInt(f.Size, 10))
	_, _ = io.WriteString(h, "\x00"+strconv.FormatInt(f.ModTime.UnixNano(), 10))
	for _, q := range qualifiers {
		_, _ = io.WriteString(h, "\x00"+q)
	}
	return hex.EncodeToString(h.Sum(nil))
}
