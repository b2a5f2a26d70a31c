package testsupport

import (
	"testing"

	"subtitler/internal/config"
	"subtitler/internal/transcriptcache"
)

// MustOpenCache opens the transcript cache for cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *transcriptcache.Store {
	t.Helper()

	store, err := transcriptcache.Open(cfg.CachePath(), nil)
	if err != nil {
		t.Fatalf("transcriptcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
