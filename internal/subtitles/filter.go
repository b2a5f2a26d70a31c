package subtitles

import (
	"regexp"
	"strings"
	"unicode"
)

// Removal records a single segment dropped by FilterSegments.
type Removal struct {
	Index   int
	Segment Segment
	// Reason is one of "empty_text", "isolated_hallucination",
	// "repeated_hallucination" or "music_symbols".
	Reason string
}

// FilterResult holds the surviving segments and a log of everything removed.
type FilterResult struct {
	Segments []Segment
	Removals []Removal
}

// FilterOptions selects which post-transcription cleanups run. Blank segments
// are always removed.
type FilterOptions struct {
	DropHallucinations bool
}

// Known WhisperX hallucination phrases (normalized form).
var hallucinationPhrases = map[string]bool{
	"thank you":              true,
	"thank you for watching": true,
	"thanks for watching":    true,
	"please subscribe":       true,
	"like and subscribe":     true,
	"well be right back":     true,
	"bye":                    true,
	"bye bye":                true,
	"see you next time":      true,
	"see you later":          true,
}

const (
	isolationGapSeconds  = 30.0
	repeatedGapSeconds   = 10.0
	repeatedRunMinLength = 3
)

// FilterSegments drops blank segments and, when enabled, WhisperX artifacts:
// stock phrases or music symbols surrounded by 30s of silence, and runs of
// three or more identical lines spaced more than 10s apart.
func FilterSegments(segments []Segment, opts FilterOptions) FilterResult {
	remove := make([]bool, len(segments))
	var removals []Removal

	for i, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			remove[i] = true
			removals = append(removals, Removal{Index: i, Segment: seg, Reason: "empty_text"})
		}
	}

	if opts.DropHallucinations {
		markRepeatedHallucinations(segments, remove, &removals)
		for i, seg := range segments {
			if remove[i] {
				continue
			}
			isolated := gapToPrevious(segments, i) >= isolationGapSeconds && gapToNext(segments, i) >= isolationGapSeconds
			if !isolated {
				continue
			}
			switch {
			case hallucinationPhrases[normalizeText(seg.Text)]:
				remove[i] = true
				removals = append(removals, Removal{Index: i, Segment: seg, Reason: "isolated_hallucination"})
			case isMusicOnly(seg.Text):
				remove[i] = true
				removals = append(removals, Removal{Index: i, Segment: seg, Reason: "music_symbols"})
			}
		}
	}

	kept := make([]Segment, 0, len(segments))
	for i, seg := range segments {
		if !remove[i] {
			kept = append(kept, seg)
		}
	}
	return FilterResult{Segments: kept, Removals: removals}
}

func markRepeatedHallucinations(segments []Segment, remove []bool, removals *[]Removal) {
	i := 0
	for i < len(segments) {
		norm := normalizeText(segments[i].Text)
		if norm == "" || remove[i] {
			i++
			continue
		}
		end := i + 1
		for end < len(segments) {
			if normalizeText(segments[end].Text) != norm {
				break
			}
			if segments[end].Start-segments[end-1].End <= repeatedGapSeconds {
				break
			}
			end++
		}
		if end-i >= repeatedRunMinLength {
			for j := i; j < end; j++ {
				remove[j] = true
				*removals = append(*removals, Removal{Index: j, Segment: segments[j], Reason: "repeated_hallucination"})
			}
		}
		i = end
	}
}

// gapToPrevious returns the silence before segment i. The first segment is
// measured from time zero.
func gapToPrevious(segments []Segment, i int) float64 {
	if i == 0 {
		return segments[i].Start
	}
	return segments[i].Start - segments[i-1].End
}

// gapToNext returns the silence after segment i; effectively infinite for the
// last segment.
func gapToNext(segments []Segment, i int) float64 {
	if i >= len(segments)-1 {
		return 1e9
	}
	return segments[i+1].Start - segments[i].End
}

func isMusicOnly(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, r := range text {
		switch {
		case r == '¶', r == '♪', r == '♫', r == '*':
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return true
}

var textNormalizeRe = regexp.MustCompile(`[^a-z0-9\s]`)

// normalizeText lowercases and strips punctuation for phrase comparison.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = textNormalizeRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
