package engine

import (
	"context"
	"strings"
	"testing"
)

func initIdeasTest(t *testing.T) {
	t.Helper()
	Init(Config{MinIdeas: 2, MaxIdeas: 3})
}

func ideaJSON(n int) string {
	var b strings.Builder
	b.WriteString(`{"ideas":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"suggested_content_type":"micro_post","suggested_title":"Idea","relevant_transcript_snippet":"quote"}`)
	}
	b.WriteString(`]}`)
	return b.String()
}

func TestGenerateIdeasOK(t *testing.T) {
	initIdeasTest(t)
	gen := &scriptedGenerator{responses: []string{ideaJSON(2)}}
	ideas, err := GenerateIdeas(context.Background(), gen, testSrc, defaultStyleText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ideas) != 2 {
		t.Errorf("expected 2 ideas, got %d", len(ideas))
	}
	if !strings.Contains(gen.users[0], testSrc.Text) {
		t.Errorf("user prompt should contain the source text")
	}
}

func TestGenerateIdeasBelowMinFails(t *testing.T) {
	initIdeasTest(t)
	gen := &scriptedGenerator{responses: []string{ideaJSON(1)}}
	if _, err := GenerateIdeas(context.Background(), gen, testSrc, defaultStyleText); err == nil {
		t.Error("expected error when below MinIdeas")
	}
}

func TestGenerateIdeasAboveMaxTruncates(t *testing.T) {
	initIdeasTest(t)
	gen := &scriptedGenerator{responses: []string{ideaJSON(5)}}
	ideas, err := GenerateIdeas(context.Background(), gen, testSrc, defaultStyleText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ideas) != 3 {
		t.Errorf("expected truncation to 3 ideas, got %d", len(ideas))
	}
}

func TestGenerateIdeasRejectsBadElements(t *testing.T) {
	initIdeasTest(t)
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown type", `{"ideas":[
			{"suggested_content_type":"micro_post","suggested_title":"A","relevant_transcript_snippet":"q"},
			{"suggested_content_type":"podcast","suggested_title":"B","relevant_transcript_snippet":"q"}]}`},
		{"missing title", `{"ideas":[
			{"suggested_content_type":"micro_post","suggested_title":"A","relevant_transcript_snippet":"q"},
			{"suggested_content_type":"carousel","suggested_title":"","relevant_transcript_snippet":"q"}]}`},
		{"missing snippet", `{"ideas":[
			{"suggested_content_type":"micro_post","suggested_title":"A","relevant_transcript_snippet":"q"},
			{"suggested_content_type":"carousel","suggested_title":"B","relevant_transcript_snippet":""}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{responses: []string{tt.raw}}
			if _, err := GenerateIdeas(context.Background(), gen, testSrc, defaultStyleText); err == nil {
				t.Error("expected element validation error")
			}
		})
	}
}

func TestGenerateIdeasGenerationFailure(t *testing.T) {
	initIdeasTest(t)
	gen := &scriptedGenerator{} // no responses: every call errors
	if _, err := GenerateIdeas(context.Background(), gen, testSrc, defaultStyleText); err == nil {
		t.Error("expected error when the model call fails")
	}
}
