package subtitles

import (
	"strings"
	"testing"
)

func TestValidateEmptyList(t *testing.T) {
	issues := Validate(NewCueList(0), 0)
	if len(issues) != 1 || issues[0] != "empty_subtitle_file" {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	list := NewCueList(3)
	_ = list.Append(Cue{Start: Timestamp{Seconds: 1}, End: Timestamp{Seconds: 1}, Text: "zero"})
	_ = list.Append(Cue{Start: Timestamp{Seconds: 2}, End: Timestamp{Seconds: 5}, Text: "long"})
	_ = list.Append(Cue{Start: Timestamp{Seconds: 4}, End: Timestamp{Seconds: 30}, Text: "overlapping"})

	issues := Validate(list, 10)
	joined := strings.Join(issues, ";")
	for _, want := range []string{"zero_duration: cue=1", "overlap: cue=2", "duration_mismatch"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected issue %q in %v", want, issues)
		}
	}
}

func TestValidateCleanList(t *testing.T) {
	list, err := Convert([]Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 1, End: 2, Text: "b"},
	}, TimingOptions{Extend: 0.25})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if issues := Validate(list, 2); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}
