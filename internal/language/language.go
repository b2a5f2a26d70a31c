package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// parseTag resolves BCP 47 tags such as "pt-BR", "en_US" or "ell" through
// x/text. ok is false when the input is not a well-formed, known tag.
func parseTag(code string) (xlang.Tag, bool) {
	tag, err := xlang.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return xlang.Und, false
	}
	if _, conf := tag.Base(); conf == xlang.No {
		return xlang.Und, false
	}
	return tag, true
}

// ToISO2 converts a language code, BCP 47 tag or English word to ISO 639-1.
// Returns empty string for unrecognized input; "auto" means detection and
// also returns empty.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "auto" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if tag, ok := parseTag(code); ok {
		base, _ := tag.Base()
		if b := base.String(); len(b) == 2 {
			return b
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Auto-detect" for empty input, or the uppercased code for
// unrecognized input.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || strings.EqualFold(trimmed, "auto") {
		return "Auto-detect"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if tag, ok := parseTag(strings.ToLower(trimmed)); ok {
		base, _ := tag.Base()
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// Known reports whether code resolves to a transcription language.
func Known(code string) bool {
	return ToISO2(code) != ""
}
