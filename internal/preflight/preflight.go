package preflight

import (
	"strings"

	"subtitler/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory and model checks for the given config.
// Directories are expected to exist already (config.EnsureDirectories).
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Transcription.CacheEnabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	}
	if strings.TrimSpace(cfg.Paths.OutputDir) != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}
	results = append(results, CheckVAD(cfg))
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
