package subtitles

import "fmt"

// Validate inspects a cue list for problems a player would notice. It returns
// a list of issue codes; an empty slice means the list passed.
func Validate(list *CueList, mediaSeconds float64) []string {
	var issues []string

	cues := list.Cues()
	if len(cues) == 0 {
		return append(issues, "empty_subtitle_file")
	}

	for i, cue := range cues {
		if cue.End.Compare(cue.Start) == 0 {
			issues = append(issues, fmt.Sprintf("zero_duration: cue=%d", i+1))
		}
		if i > 0 && cues[i-1].End.Compare(cue.Start) > 0 {
			issues = append(issues, fmt.Sprintf("overlap: cue=%d", i))
		}
	}

	if mediaSeconds > 0 {
		last := cues[len(cues)-1].End.InSeconds()
		if last > mediaSeconds+durationToleranceSeconds {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", last-mediaSeconds))
		}
	}
	return issues
}

// durationToleranceSeconds is how far the last cue may run past the media end.
const durationToleranceSeconds = 8.0
