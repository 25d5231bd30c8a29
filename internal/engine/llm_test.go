package engine

import (
	"context"
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  {\"a\":1}  ", `{"a":1}`},
		{"fence with space", "```json\n  {\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateJSONShapeMismatch(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{"unexpected": true}`}}
	type strict struct {
		Ideas []ContentIdea `json:"ideas"`
	}
	// A shape that simply lacks fields decodes into the zero value, so
	// use a genuinely incompatible payload.
	gen.responses = []string{`["a","b"]`}
	_, err := GenerateJSON[strict](context.Background(), gen, "sys", "user")
	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if gerr.Raw == "" {
		t.Error("GenerationError should carry the raw response")
	}
}

func TestGenerateJSONOK(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{"ideas":[{"suggested_content_type":"carousel","suggested_title":"T","relevant_transcript_snippet":"q"}]}`}}
	out, err := GenerateJSON[ideasEnvelope](context.Background(), gen, "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Ideas) != 1 || out.Ideas[0].SuggestedType != TypeCarousel {
		t.Errorf("decode wrong: %+v", out)
	}
}
