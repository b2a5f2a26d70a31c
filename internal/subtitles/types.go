package subtitles

import (
	"fmt"
	"strings"

	"subtitler/internal/services"
)

// Segment is one timed fragment of transcript text in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Cue is a single timed unit of subtitle text.
type Cue struct {
	Start Timestamp
	End   Timestamp
	Text  string
}

// Segment converts the cue back into a segment.
func (c Cue) Segment() Segment {
	return Segment{Start: c.Start.InSeconds(), End: c.End.InSeconds(), Text: c.Text}
}

// CueList is an ordered sequence of cues. It is built by appending in start
// order and is sealed once serialized.
type CueList struct {
	cues   []Cue
	sealed bool
}

// NewCueList returns an empty list with room for capacity cues.
func NewCueList(capacity int) *CueList {
	if capacity < 0 {
		capacity = 0
	}
	return &CueList{cues: make([]Cue, 0, capacity)}
}

// Append adds a cue to the end of the list.
func (l *CueList) Append(cue Cue) error {
	if l.sealed {
		return services.Wrap(services.ErrInvalidInput, "subtitles", "append cue", "cue list already serialized", nil)
	}
	cue.Text = strings.TrimSpace(cue.Text)
	if cue.Text == "" {
		return services.Wrap(services.ErrInvalidInput, "subtitles", "append cue", fmt.Sprintf("cue %d has empty text", len(l.cues)+1), nil)
	}
	if cue.End.Compare(cue.Start) < 0 {
		return services.Wrap(services.ErrInvalidInput, "subtitles", "append cue",
			fmt.Sprintf("cue %d ends (%s) before it starts (%s)", len(l.cues)+1, cue.End, cue.Start), nil)
	}
	if n := len(l.cues); n > 0 && cue.Start.Compare(l.cues[n-1].Start) < 0 {
		return services.Wrap(services.ErrInvalidInput, "subtitles", "append cue",
			fmt.Sprintf("cue %d starts (%s) before cue %d (%s)", n+1, cue.Start, n, l.cues[n-1].Start), nil)
	}
	l.cues = append(l.cues, cue)
	return nil
}

// Len returns the number of cues.
func (l *CueList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.cues)
}

// Cues returns a copy of the cues in order.
func (l *CueList) Cues() []Cue {
	if l == nil {
		return nil
	}
	out := make([]Cue, len(l.cues))
	copy(out, l.cues)
	return out
}

// Segments converts every cue back into a segment so a parsed subtitle file
// can be fed through the transforms again.
func (l *CueList) Segments() []Segment {
	if l == nil {
		return nil
	}
	out := make([]Segment, len(l.cues))
	for i, cue := range l.cues {
		out[i] = cue.Segment()
	}
	return out
}

// Text joins all cue texts with single spaces.
func (l *CueList) Text() string {
	if l == nil {
		return ""
	}
	parts := make([]string, 0, len(l.cues))
	for _, cue := range l.cues {
		parts = append(parts, strings.Join(strings.Fields(cue.Text), " "))
	}
	return strings.Join(parts, " ")
}

// Seal marks the list as serialized. Further appends fail.
func (l *CueList) Seal() {
	if l != nil {
		l.sealed = true
	}
}

// Sealed reports whether the list has been serialized.
func (l *CueList) Sealed() bool {
	return l != nil && l.sealed
}
