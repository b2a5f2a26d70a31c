package ytdlp

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"subtitler/internal/services"
)

func TestDownloadReturnsPrintedPaths(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "downloads")
	var gotName string
	var gotArgs []string
	svc := New(Config{AudioFormat: "mp3", Playlist: true}, nil)
	svc.WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return []byte("WARNING: something odd\n/d/one [a].mp3\n\n/d/two [b].mp3\n"), nil
	})

	paths, err := svc.Download(context.Background(), "https://example.com/list", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !slices.Equal(paths, []string{"/d/one [a].mp3", "/d/two [b].mp3"}) {
		t.Fatalf("unexpected paths: %v", paths)
	}
	if gotName != "yt-dlp" {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	for _, want := range []string{"--yes-playlist", "--extract-audio", "after_move:filepath"} {
		if !slices.Contains(gotArgs, want) {
			t.Fatalf("expected %q in args %v", want, gotArgs)
		}
	}
	if i := slices.Index(gotArgs, "--audio-format"); i < 0 || gotArgs[i+1] != "mp3" {
		t.Fatalf("expected audio format mp3, got %v", gotArgs)
	}
	if gotArgs[len(gotArgs)-1] != "https://example.com/list" {
		t.Fatalf("expected url last, got %v", gotArgs)
	}
}

func TestBuildArgsSingleVideoBestAudio(t *testing.T) {
	svc := New(Config{AudioFormat: "best"}, nil)
	args := svc.buildArgs("https://example.com/v", "/tmp/d")
	if !slices.Contains(args, "--no-playlist") || slices.Contains(args, "--audio-format") {
		t.Fatalf("unexpected args: %v", args)
	}
	if i := slices.Index(args, "--output"); args[i+1] != filepath.Join("/tmp/d", OutputTemplate) {
		t.Fatalf("unexpected output template: %v", args)
	}
}

func TestDownloadErrors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		runner Runner
		marker error
	}{
		{
			name:   "empty url",
			url:    " ",
			marker: services.ErrInvalidInput,
		},
		{
			name: "missing binary",
			url:  "https://example.com/v",
			runner: func(context.Context, string, ...string) ([]byte, error) {
				return nil, &exec.Error{Name: "yt-dlp", Err: exec.ErrNotFound}
			},
			marker: services.ErrExternalTool,
		},
		{
			name: "nothing printed",
			url:  "https://example.com/v",
			runner: func(context.Context, string, ...string) ([]byte, error) {
				return []byte("WARNING: no formats\n"), nil
			},
			marker: services.ErrEmptyInput,
		},
		{
			name: "download failure",
			url:  "https://example.com/v",
			runner: func(context.Context, string, ...string) ([]byte, error) {
				return nil, errors.New("exit status 1: ERROR: unavailable")
			},
			marker: services.ErrExternalTool,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(Config{}, nil)
			svc.WithRunner(tt.runner)
			_, err := svc.Download(context.Background(), tt.url, t.TempDir())
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}
