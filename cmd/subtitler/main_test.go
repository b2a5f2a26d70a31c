package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	cacheDir   string
}

// setupCLITestEnv writes a config whose directories live in a temp dir and
// points HOME there so nothing touches the real user config.
func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "subtitler.toml"),
		cacheDir:   filepath.Join(base, "cache"),
	}
	content := fmt.Sprintf(`[paths]
work_dir = %q
download_dir = %q
cache_dir = %q
state_dir = %q
log_dir = %q
%s`,
		filepath.Join(base, "work"),
		filepath.Join(base, "downloads"),
		env.cacheDir,
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
		extra,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRootShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "transcribe")
	requireContains(t, out, "merge")
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t, "[subtitles]\nformat = \"ass\"\n")
	_, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "subtitles.format") {
		t.Fatalf("expected config error naming subtitles.format, got %v", err)
	}
}
