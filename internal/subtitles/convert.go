package subtitles

import (
	"fmt"
	"math"
	"strings"

	"subtitler/internal/services"
)

// TimingOptions controls how segment boundaries become cue boundaries.
type TimingOptions struct {
	// Extend pushes each cue's end forward by this many seconds to reduce
	// flicker between cues. The extension never crosses the next cue's start.
	// The final cue is never extended.
	Extend float64
}

// Convert turns an ordered segment list into cues, one per segment with
// non-empty text. Segments whose text is blank are dropped before pairing so
// the clamp uses the next cue that is actually emitted.
func Convert(segments []Segment, opts TimingOptions) (*CueList, error) {
	if math.IsNaN(opts.Extend) || math.IsInf(opts.Extend, 0) || opts.Extend < 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "subtitles", "convert", fmt.Sprintf("extend must be a non-negative number, got %v", opts.Extend), nil)
	}
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "subtitles", "convert", "no segments to convert", nil)
	}
	if err := ValidateSegments(segments); err != nil {
		return nil, err
	}

	usable := withText(segments)
	if len(usable) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "subtitles", "convert", "every segment has empty text", nil)
	}

	list := NewCueList(len(usable))
	for current, next := range withNext(usable) {
		end := current.End
		if next != nil {
			end = math.Min(next.Start, current.End+opts.Extend)
		}
		start, err := FormatSeconds(current.Start)
		if err != nil {
			return nil, err
		}
		stop, err := FormatSeconds(end)
		if err != nil {
			return nil, err
		}
		if err := list.Append(Cue{Start: start, End: stop, Text: current.Text}); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ValidateSegments checks the ordering and timing preconditions shared by both
// transforms: finite non-negative times, end not before start, and starts that
// never move backwards.
func ValidateSegments(segments []Segment) error {
	for i, seg := range segments {
		if !finite(seg.Start) || !finite(seg.End) {
			return services.Wrap(services.ErrInvalidInput, "subtitles", "validate segments", fmt.Sprintf("segment %d has non-finite timing", i+1), nil)
		}
		if seg.Start < 0 {
			return services.Wrap(services.ErrInvalidInput, "subtitles", "validate segments", fmt.Sprintf("segment %d starts at negative time %v", i+1, seg.Start), nil)
		}
		if seg.End < seg.Start {
			return services.Wrap(services.ErrInvalidInput, "subtitles", "validate segments", fmt.Sprintf("segment %d ends (%v) before it starts (%v)", i+1, seg.End, seg.Start), nil)
		}
		if i > 0 && seg.Start < segments[i-1].Start {
			return services.Wrap(services.ErrInvalidInput, "subtitles", "validate segments", fmt.Sprintf("segment %d starts (%v) before segment %d (%v)", i+1, seg.Start, i, segments[i-1].Start), nil)
		}
	}
	return nil
}

func withText(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
