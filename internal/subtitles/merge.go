package subtitles

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"subtitler/internal/services"
)

// DefaultMergeThreshold is the accumulated character count that closes a
// merged cue when no sentence boundary shows up first.
const DefaultMergeThreshold = 160

// sentenceLookback is how many trailing runes are searched for a terminal mark,
// so text like `done."` or `right?)` still ends a sentence.
const sentenceLookback = 3

// MergeOptions controls the sentence merger.
type MergeOptions struct {
	// Threshold is the character count (after appending the current fragment
	// and its separator) at which a run is closed. Must be positive.
	Threshold int
}

// DefaultMergeOptions returns options using DefaultMergeThreshold.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{Threshold: DefaultMergeThreshold}
}

func (o MergeOptions) threshold() (int, error) {
	if o.Threshold <= 0 {
		return 0, services.Wrap(services.ErrInvalidInput, "subtitles", "merge", fmt.Sprintf("threshold must be positive, got %d", o.Threshold), nil)
	}
	return o.Threshold, nil
}

// EndsSentence reports whether the trimmed text has '.', '?' or '!' among its
// last three runes.
func EndsSentence(text string) bool {
	text = strings.TrimSpace(text)
	for i := 0; i < sentenceLookback && text != ""; i++ {
		r, size := utf8.DecodeLastRuneInString(text)
		switch r {
		case '.', '?', '!':
			return true
		}
		text = text[:len(text)-size]
	}
	return false
}

// run is a closed group of consecutive fragments [first, last] and their
// joined text.
type run struct {
	first int
	last  int
	text  string
}

// sentenceRuns performs the single left-to-right merge scan over fragment
// texts. A run closes when its latest fragment ends a sentence, when the
// accumulated text reaches threshold runes, or at the final fragment. Runs
// whose text is entirely blank are discarded.
func sentenceRuns(texts []string, threshold int) []run {
	var (
		runs   []run
		acc    strings.Builder
		length int
		first  = -1
	)
	for i, raw := range texts {
		text := strings.TrimSpace(raw)
		if text != "" {
			acc.WriteString(text)
			acc.WriteByte(' ')
			length += utf8.RuneCountInString(text) + 1
		}
		if first < 0 {
			first = i
		}

		complete := EndsSentence(text) || length >= threshold || i == len(texts)-1
		if !complete {
			continue
		}
		if joined := strings.TrimSpace(acc.String()); joined != "" {
			runs = append(runs, run{first: first, last: i, text: joined})
		}
		acc.Reset()
		length = 0
		first = -1
	}
	return runs
}

// MergeSegments folds consecutive segments into sentence-complete segments.
// Each result starts where its first fragment starts and ends where its last
// fragment ends.
func MergeSegments(fragments []Segment, threshold int) ([]Segment, error) {
	if len(fragments) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "subtitles", "merge", "no fragments to merge", nil)
	}
	if threshold <= 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "subtitles", "merge", fmt.Sprintf("threshold must be positive, got %d", threshold), nil)
	}
	if err := ValidateSegments(fragments); err != nil {
		return nil, err
	}

	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	runs := sentenceRuns(texts, threshold)
	if len(runs) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "subtitles", "merge", "every fragment has empty text", nil)
	}

	merged := make([]Segment, 0, len(runs))
	for _, r := range runs {
		merged = append(merged, Segment{
			Start: fragments[r.first].Start,
			End:   fragments[r.last].End,
			Text:  r.text,
		})
	}
	return merged, nil
}

// Merge folds segments into sentence-complete cues. Cue boundaries are the
// formatted start of each run's first fragment and end of its last.
func Merge(fragments []Segment, opts MergeOptions) (*CueList, error) {
	threshold, err := opts.threshold()
	if err != nil {
		return nil, err
	}
	merged, err := MergeSegments(fragments, threshold)
	if err != nil {
		return nil, err
	}
	list := NewCueList(len(merged))
	for _, seg := range merged {
		start, err := FormatSeconds(seg.Start)
		if err != nil {
			return nil, err
		}
		end, err := FormatSeconds(seg.End)
		if err != nil {
			return nil, err
		}
		if err := list.Append(Cue{Start: start, End: end, Text: seg.Text}); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// MergeCues folds an existing cue list, keeping the original millisecond
// boundaries instead of re-deriving them from seconds.
func MergeCues(list *CueList, opts MergeOptions) (*CueList, error) {
	threshold, err := opts.threshold()
	if err != nil {
		return nil, err
	}
	cues := list.Cues()
	if len(cues) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "subtitles", "merge", "no cues to merge", nil)
	}

	texts := make([]string, len(cues))
	for i, c := range cues {
		texts[i] = c.Text
	}
	runs := sentenceRuns(texts, threshold)
	if len(runs) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "subtitles", "merge", "every cue has empty text", nil)
	}

	out := NewCueList(len(runs))
	for _, r := range runs {
		if err := out.Append(Cue{Start: cues[r.first].Start, End: cues[r.last].End, Text: r.text}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
