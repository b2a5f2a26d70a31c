package pipeline

import (
	"fmt"
	"time"

	"subtitler/internal/media"
	"subtitler/internal/services"
)

// Result is the outcome of one media item.
type Result struct {
	Item    media.Item
	Output  string
	Cues    int
	Cached  bool
	Removed int
	// Issues lists problems found in the written file, see subtitles.Validate.
	Issues  []string
	Err     error
	Elapsed time.Duration
}

// Status returns "ok", "warning" or the error kind.
func (r Result) Status() string {
	switch {
	case r.Err != nil:
		return services.Kind(r.Err)
	case len(r.Issues) > 0:
		return "warning"
	default:
		return "ok"
	}
}

// Summary aggregates a batch run.
type Summary struct {
	RunID   string
	Results []Result
	Elapsed time.Duration
}

// Succeeded counts items that produced a cue file.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts items that produced no cue file.
func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Err reports the first item failure, or nil when every item succeeded.
func (s Summary) Err() error {
	for _, r := range s.Results {
		if r.Err != nil {
			return fmt.Errorf("%d of %d items failed: %w", s.Failed(), len(s.Results), r.Err)
		}
	}
	return nil
}

// AddUnresolved records inputs that never became media items as failed
// results so they show up in the summary and in Err.
func (s *Summary) AddUnresolved(failures []media.Failure) {
	for _, f := range failures {
		s.Results = append(s.Results, Result{
			Item: media.Item{Path: f.Input, Source: f.Input, Remote: media.IsURL(f.Input)},
			Err:  f.Err,
		})
	}
}
