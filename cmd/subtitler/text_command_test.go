package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTextPrintsTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.srt")
	writeFile(t, path, fragmentsSRT)

	out, _, err := runCLI(t, []string{"text", path}, "")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if strings.TrimSpace(out) != "Hello. this is one sentence! Tail" {
		t.Fatalf("unexpected transcript: %q", out)
	}
}

func TestTextCopiesToClipboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.srt")
	writeFile(t, path, fragmentsSRT)

	var copied string
	original := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWrite = original })

	out, errOut, err := runCLI(t, []string{"text", "--copy", path}, "")
	if err != nil {
		t.Fatalf("text --copy: %v", err)
	}
	if out != "" || copied != "Hello. this is one sentence! Tail" {
		t.Fatalf("expected transcript on clipboard only, got stdout=%q clipboard=%q", out, copied)
	}
	requireContains(t, errOut, "Copied 4 cues")
}
