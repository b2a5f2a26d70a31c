package main

import (
	"context"
	"path/filepath"
	"testing"

	"subtitler/internal/subtitles"
	"subtitler/internal/transcriptcache"
)

func TestCacheStatsAndClear(t *testing.T) {
	env := setupCLITestEnv(t, "")
	store, err := transcriptcache.Open(filepath.Join(env.cacheDir, "transcripts.db"), nil)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	err = store.Put(context.Background(), "key", transcriptcache.Entry{
		MediaPath: "/media/talk.mp4",
		Model:     "small",
		Segments:  []subtitles.Segment{{Start: 0, End: 1, Text: "cached"}},
	})
	_ = store.Close()
	if err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	out, _, err := runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries")
	requireContains(t, out, "transcripts.db")

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 1 cached transcript(s)")
}
