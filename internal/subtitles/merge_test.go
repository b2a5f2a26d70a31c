package subtitles

import (
	"errors"
	"strings"
	"testing"

	"subtitler/internal/services"
)

func TestEndsSentence(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Hello.", true},
		{"Really?", true},
		{"Stop!", true},
		{`He said "done."`, true},
		{"Is it (really?)", true},
		{"Wait...   ", true},
		{"e.g. this", false},
		{"World", false},
		{"", false},
		{"a.bcd", false},
		{"¿Qué?", true},
	}
	for _, tc := range tests {
		if got := EndsSentence(tc.text); got != tc.want {
			t.Fatalf("EndsSentence(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

// The trailing "Hello." closes the first run before the final-fragment rule
// can apply, so this input yields two cues rather than one.
func TestMergeSplitsAfterSentenceTerminal(t *testing.T) {
	segments := []Segment{
		{Start: 0.0, End: 2.0, Text: "Hello."},
		{Start: 2.0, End: 5.0, Text: "World"},
		{Start: 5.0, End: 6.0, Text: "end"},
	}
	list, err := Merge(segments, MergeOptions{Threshold: 160})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	cues := list.Cues()
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "Hello." || cues[0].Start != mustFormat(t, 0) || cues[0].End != mustFormat(t, 2) {
		t.Fatalf("unexpected first cue: %+v", cues[0])
	}
	if cues[1].Text != "World end" || cues[1].Start != mustFormat(t, 2) || cues[1].End != mustFormat(t, 6) {
		t.Fatalf("unexpected second cue: %+v", cues[1])
	}
}

func TestMergeWithoutTerminalProducesSingleCue(t *testing.T) {
	segments := []Segment{
		{Start: 0.0, End: 2.0, Text: "Hello"},
		{Start: 2.0, End: 5.0, Text: "World"},
		{Start: 5.0, End: 6.0, Text: "end"},
	}
	list, err := Merge(segments, DefaultMergeOptions())
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	cues := list.Cues()
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Text != "Hello World end" || cues[0].Start != mustFormat(t, 0) || cues[0].End != mustFormat(t, 6) {
		t.Fatalf("unexpected cue: %+v", cues[0])
	}
}

func TestMergeThresholdClosesRun(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1, Text: "aaaa"},  // 5
		{Start: 1, End: 2, Text: "bbbb"},  // 10 -> closes
		{Start: 2, End: 3, Text: "cc"},    // 3
		{Start: 3, End: 4, Text: "dddddd"}, // 10 -> closes
		{Start: 4, End: 5, Text: "e"},
	}
	merged, err := MergeSegments(segments, 10)
	if err != nil {
		t.Fatalf("MergeSegments returned error: %v", err)
	}
	want := []Segment{
		{Start: 0, End: 2, Text: "aaaa bbbb"},
		{Start: 2, End: 4, Text: "cc dddddd"},
		{Start: 4, End: 5, Text: "e"},
	}
	if len(merged) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(merged), merged)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("segment %d = %+v, want %+v", i, merged[i], want[i])
		}
	}
}

func TestMergeThresholdCountsRunes(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1, Text: "éé"}, // 3 runes with separator, 5 bytes
		{Start: 1, End: 2, Text: "x"},
	}
	merged, err := MergeSegments(segments, 4)
	if err != nil {
		t.Fatalf("MergeSegments returned error: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected rune counting to keep fragments together, got %+v", merged)
	}
}

func TestMergeProperties(t *testing.T) {
	words := strings.Fields("the quick brown fox jumps over the lazy dog. " +
		"did it really? yes it did! and then it slept for a very long time " +
		"while the farmer counted his sheep one by one until morning came.")
	var segments []Segment
	for i, w := range words {
		segments = append(segments, Segment{Start: float64(i), End: float64(i) + 0.8, Text: w})
	}
	const threshold = 40
	merged, err := MergeSegments(segments, threshold)
	if err != nil {
		t.Fatalf("MergeSegments returned error: %v", err)
	}
	if len(merged) > len(segments) {
		t.Fatalf("merge produced more segments than it received")
	}

	var got []string
	for i, m := range merged {
		if strings.TrimSpace(m.Text) == "" {
			t.Fatalf("segment %d has empty text", i)
		}
		got = append(got, m.Text)
		if i < len(merged)-1 && !EndsSentence(m.Text) && len([]rune(m.Text))+1 < threshold {
			t.Fatalf("segment %d (%q) closed without terminal or threshold", i, m.Text)
		}
		if i > 0 && m.Start < merged[i-1].Start {
			t.Fatalf("segment %d starts before its predecessor", i)
		}
	}
	if strings.Join(got, " ") != strings.Join(words, " ") {
		t.Fatalf("concatenation not preserved:\n got %q\nwant %q", strings.Join(got, " "), strings.Join(words, " "))
	}
}

func TestMergeSkipsBlankFragments(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1, Text: "  "},
		{Start: 1, End: 2, Text: "Hi."},
		{Start: 2, End: 3, Text: ""},
	}
	list, err := Merge(segments, DefaultMergeOptions())
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	cues := list.Cues()
	if len(cues) != 1 || cues[0].Text != "Hi." {
		t.Fatalf("expected single non-empty cue, got %+v", cues)
	}
	if cues[0].Start != mustFormat(t, 0) {
		t.Fatalf("expected run to start at first fragment, got %s", cues[0].Start)
	}
}

func TestMergeErrors(t *testing.T) {
	if _, err := Merge(nil, DefaultMergeOptions()); !errors.Is(err, services.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Merge([]Segment{{Start: 0, End: 1, Text: " "}}, DefaultMergeOptions()); !errors.Is(err, services.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for blank input, got %v", err)
	}
	if _, err := Merge([]Segment{{Start: 0, End: 1, Text: "a"}}, MergeOptions{Threshold: -5}); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative threshold, got %v", err)
	}
	if _, err := Merge([]Segment{{Start: 0, End: 1, Text: "a"}}, MergeOptions{}); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unset threshold, got %v", err)
	}
	list := NewCueList(1)
	if err := list.Append(Cue{End: Timestamp{Seconds: 1}, Text: "a"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := MergeCues(list, MergeOptions{Threshold: 0}); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero cue threshold, got %v", err)
	}
	if _, err := MergeSegments([]Segment{{Start: 0, End: 1, Text: "a"}}, 0); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero threshold, got %v", err)
	}
}

func TestMergeCuesKeepsMillisecondBoundaries(t *testing.T) {
	list := NewCueList(3)
	for _, cue := range []Cue{
		{Start: Timestamp{Milliseconds: 1}, End: Timestamp{Seconds: 1, Milliseconds: 999}, Text: "one"},
		{Start: Timestamp{Seconds: 2, Milliseconds: 3}, End: Timestamp{Seconds: 3, Milliseconds: 7}, Text: "two."},
		{Start: Timestamp{Seconds: 4}, End: Timestamp{Seconds: 5, Milliseconds: 1}, Text: "three"},
	} {
		if err := list.Append(cue); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	merged, err := MergeCues(list, DefaultMergeOptions())
	if err != nil {
		t.Fatalf("MergeCues returned error: %v", err)
	}
	cues := merged.Cues()
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Start != (Timestamp{Milliseconds: 1}) || cues[0].End != (Timestamp{Seconds: 3, Milliseconds: 7}) {
		t.Fatalf("unexpected boundaries: %+v", cues[0])
	}
	if cues[0].Text != "one two." || cues[1].Text != "three" {
		t.Fatalf("unexpected texts: %q / %q", cues[0].Text, cues[1].Text)
	}
	if _, err := MergeCues(NewCueList(0), DefaultMergeOptions()); !errors.Is(err, services.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for empty list, got %v", err)
	}
}
