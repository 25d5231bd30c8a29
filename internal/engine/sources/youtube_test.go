package sources

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple object", `{"a":1}trailing junk`, `{"a":1}`},
		{"nested", `{"a":{"b":[1,2]}};var next`, `{"a":{"b":[1,2]}}`},
		{"braces in string", `{"a":"}{"}rest`, `{"a":"}{"}`},
		{"escaped quote in string", `{"a":"say \"hi\""}x`, `{"a":"say \"hi\""}`},
		{"not an object", `[1,2,3]`, ""},
		{"unbalanced", `{"a":1`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNeedsPoToken(t *testing.T) {
	if !needsPoToken("https://www.youtube.com/api/timedtext?v=x&exp=xpe&lang=en") {
		t.Error("xpe track should require a PoToken")
	}
	if needsPoToken("https://www.youtube.com/api/timedtext?v=x&lang=en") {
		t.Error("plain track should not require a PoToken")
	}
}

func TestCaptionTrackDisplayName(t *testing.T) {
	var tr captionTrack
	tr.LanguageCode = "en"
	if got := tr.displayName(); got != "en" {
		t.Errorf("fallback = %q, want language code", got)
	}

	tr.Name.Runs = []struct {
		Text string `json:"text"`
	}{{Text: "English (auto-generated)"}}
	if got := tr.displayName(); got != "English (auto-generated)" {
		t.Errorf("runs name = %q", got)
	}

	tr.Name.SimpleText = "English"
	if got := tr.displayName(); got != "English" {
		t.Errorf("simpleText should win, got %q", got)
	}
}
