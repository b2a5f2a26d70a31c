package ffprobe

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Duration: "130.0"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "123.45"},
	}
	if result.AudioStreamCount() != 2 || !result.HasAudio() {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{{Duration: "12.5"}, {Duration: "bad"}, {Duration: "14"}},
		Format:  Format{Duration: "nope"},
	}
	if got := result.DurationSeconds(); got != 14 {
		t.Fatalf("expected longest stream duration 14, got %v", got)
	}
	if (Result{}).DurationSeconds() != 0 {
		t.Fatal("expected zero duration for empty result")
	}
}

func TestInspectUsesRunner(t *testing.T) {
	var gotArgs []string
	runner := func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("unexpected binary %q", binary)
		}
		gotArgs = args
		return []byte(`{"streams":[{"codec_type":"audio","sample_rate":"48000","channels":2}],"format":{"duration":"61.2"}}`), nil
	}
	result, err := New("", runner).Inspect(context.Background(), "/media/talk.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "/media/talk.mp4" || !slices.Contains(gotArgs, "-show_streams") {
		t.Fatalf("unexpected args: %v", gotArgs)
	}
	if !result.HasAudio() || result.DurationSeconds() != 61.2 || result.Streams[0].Channels != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestInspectErrors(t *testing.T) {
	failing := func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}
	if _, err := New("ffprobe", failing).Inspect(context.Background(), "x.mp4"); err == nil {
		t.Fatal("expected runner failure to surface")
	}
	garbage := func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	}
	if _, err := New("ffprobe", garbage).Inspect(context.Background(), "x.mp4"); err == nil {
		t.Fatal("expected parse failure")
	}
	if _, err := New("ffprobe", garbage).Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected empty path failure")
	}
}
