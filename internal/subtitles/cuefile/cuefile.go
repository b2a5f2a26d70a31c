package cuefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/asticode/go-astisub"

	"subtitler/internal/fileutil"
	"subtitler/internal/services"
	"subtitler/internal/subtitles"
)

// Read parses an .srt or .vtt file into a cue list. Items with blank text are
// skipped; items that run backwards or out of order fail with ErrParse.
func Read(path string) (*subtitles.CueList, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "cuefile", "read", fmt.Sprintf("read %s", path), err)
	}
	return Decode(bytes.NewReader(data), format)
}

// Decode parses subtitle content in the given format.
func Decode(r io.Reader, format Format) (*subtitles.CueList, error) {
	var (
		subs *astisub.Subtitles
		err  error
	)
	switch format {
	case FormatSRT:
		subs, err = astisub.ReadFromSRT(r)
	case FormatVTT:
		subs, err = astisub.ReadFromWebVTT(r)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "cuefile", "decode", fmt.Sprintf("unsupported format %q", format), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "cuefile", "decode", fmt.Sprintf("parse %s content", format), err)
	}

	list := subtitles.NewCueList(len(subs.Items))
	for i, item := range subs.Items {
		text := itemText(item)
		if text == "" {
			continue
		}
		cue := subtitles.Cue{
			Start: subtitles.TimestampFromDuration(item.StartAt),
			End:   subtitles.TimestampFromDuration(item.EndAt),
			Text:  text,
		}
		if err := list.Append(cue); err != nil {
			return nil, services.Wrap(services.ErrParse, "cuefile", "decode", fmt.Sprintf("item %d: %v", i+1, err), nil)
		}
	}
	return list, nil
}

// Write serializes list to path atomically and seals the list.
func Write(path string, list *subtitles.CueList, format Format) error {
	if list.Len() == 0 {
		return services.Wrap(services.ErrEmptyInput, "cuefile", "write", "no cues to write", nil)
	}
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, list, format)
	})
	if err != nil {
		if errors.Is(err, services.ErrConfiguration) {
			return err
		}
		return services.Wrap(services.ErrIO, "cuefile", "write", fmt.Sprintf("write %s", path), err)
	}
	list.Seal()
	return nil
}

// Encode renders list in the given format.
func Encode(w io.Writer, list *subtitles.CueList, format Format) error {
	subs := toAstisub(list)
	switch format {
	case FormatSRT:
		return subs.WriteToSRT(w)
	case FormatVTT:
		return subs.WriteToWebVTT(w)
	default:
		return services.Wrap(services.ErrConfiguration, "cuefile", "encode", fmt.Sprintf("unsupported format %q", format), nil)
	}
}

func toAstisub(list *subtitles.CueList) *astisub.Subtitles {
	subs := astisub.NewSubtitles()
	for i, cue := range list.Cues() {
		item := &astisub.Item{
			Index:   i + 1,
			StartAt: cue.Start.Duration(),
			EndAt:   cue.End.Duration(),
		}
		for _, line := range strings.Split(cue.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			item.Lines = append(item.Lines, astisub.Line{Items: []astisub.LineItem{{Text: line}}})
		}
		subs.Items = append(subs.Items, item)
	}
	return subs
}

// itemText joins an item's lines with newlines. Item.String joins them with
// " - ", which loses the line structure.
func itemText(item *astisub.Item) string {
	lines := make([]string, 0, len(item.Lines))
	for _, line := range item.Lines {
		if text := strings.TrimSpace(line.String()); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}
