package subtitles

import (
	"fmt"
	"math"
	"time"

	"subtitler/internal/services"
)

// Timestamp is a cue boundary broken down the way subtitle formats print it.
type Timestamp struct {
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

// FormatSeconds converts a second count into a Timestamp. Every component is
// truncated, never rounded.
func FormatSeconds(seconds float64) (Timestamp, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return Timestamp{}, services.Wrap(services.ErrInvalidInput, "subtitles", "format time", fmt.Sprintf("non-finite seconds %v", seconds), nil)
	}
	if seconds < 0 {
		return Timestamp{}, services.Wrap(services.ErrInvalidInput, "subtitles", "format time", fmt.Sprintf("negative seconds %v", seconds), nil)
	}

	hours := math.Floor(seconds / 3600)
	remaining := math.Mod(seconds, 3600)
	minutes := math.Floor(remaining / 60)
	remaining = math.Mod(remaining, 60)
	whole := math.Floor(remaining)
	millis := math.Floor((remaining - whole) * 1000)
	if millis > 999 {
		millis = 999
	}

	return Timestamp{
		Hours:        int(hours),
		Minutes:      int(minutes),
		Seconds:      int(whole),
		Milliseconds: int(millis),
	}, nil
}

// TimestampFromDuration converts a duration, truncated to the millisecond.
// Negative durations clamp to zero.
func TimestampFromDuration(d time.Duration) Timestamp {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return Timestamp{
		Hours:        int(ms / 3_600_000),
		Minutes:      int(ms / 60_000 % 60),
		Seconds:      int(ms / 1000 % 60),
		Milliseconds: int(ms % 1000),
	}
}

// TotalMilliseconds returns the timestamp as a millisecond count.
func (t Timestamp) TotalMilliseconds() int64 {
	return int64(t.Hours)*3_600_000 + int64(t.Minutes)*60_000 + int64(t.Seconds)*1000 + int64(t.Milliseconds)
}

// InSeconds returns the timestamp as fractional seconds.
func (t Timestamp) InSeconds() float64 {
	return float64(t.TotalMilliseconds()) / 1000
}

// Duration returns the timestamp as an offset from the start of the media.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.TotalMilliseconds()) * time.Millisecond
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after other.
func (t Timestamp) Compare(other Timestamp) int {
	a, b := t.TotalMilliseconds(), other.TotalMilliseconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SRT renders the timestamp as HH:MM:SS,mmm.
func (t Timestamp) SRT() string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d", t.Hours, t.Minutes, t.Seconds, t.Milliseconds)
}

// VTT renders the timestamp as HH:MM:SS.mmm.
func (t Timestamp) VTT() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hours, t.Minutes, t.Seconds, t.Milliseconds)
}

func (t Timestamp) String() string {
	return t.SRT()
}
