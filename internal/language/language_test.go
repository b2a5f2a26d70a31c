package language

import (
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes pass through
		{"en", "en"},
		{"EN", "en"},
		{"es", "es"},
		// 3-letter codes convert
		{"eng", "en"},
		{"spa", "es"},
		{"fra", "fr"},
		{"fre", "fr"},
		{"ger", "de"},
		{"jpn", "ja"},
		{"chi", "zh"},
		{"dut", "nl"},
		// Word forms
		{"english", "en"},
		{"French", "fr"},
		{"GERMAN", "de"},
		{"mandarin", "zh"},
		// BCP 47 tags resolve through x/text
		{"en-US", "en"},
		{"pt_BR", "pt"},
		{"zh-Hant-TW", "zh"},
		{"ell", "el"},
		// Unknown 2-letter passes through
		{"xy", "xy"},
		// Auto-detect and empty
		{"auto", ""},
		{"", ""},
		{" ", ""},
		{"not a language", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO2(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"eng", "English"},
		{"fre", "French"},
		{"deu", "German"},
		{"zh", "Chinese"},
		{"english", "English"},
		{"el", "Greek"},
		{"", "Auto-detect"},
		{"auto", "Auto-detect"},
		{"12", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := DisplayName(tt.input)
			if result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	if !Known("en-GB") {
		t.Fatal("expected en-GB to be known")
	}
	if Known("") || Known("auto") {
		t.Fatal("auto-detect must not count as a configured language")
	}
}
