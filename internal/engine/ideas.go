package engine

import (
	"context"
	"fmt"
	"log/slog"
)

type ideasEnvelope struct {
	Ideas []ContentIdea `json:"ideas"`
}

// GenerateIdeas runs the idea-extraction pass over one source text. It
// returns a nil slice (with an error describing why) when the model
// produced nothing usable; the orchestrator treats that as "this source
// yielded nothing" and keeps going with the rest of the batch.
func GenerateIdeas(ctx context.Context, gen Generator, src SourceText, style string) ([]ContentIdea, error) {
	system := buildIdeasSystemPrompt(*Cfg, style)
	user := fmt.Sprintf(ideasUserPromptTmpl, src.Text)

	env, err := GenerateJSON[ideasEnvelope](ctx, gen, system, user)
	if err != nil {
		return nil, fmt.Errorf("idea generation for %s: %w", src.ID, err)
	}

	ideas, err := checkIdeas(env.Ideas)
	if err != nil {
		return nil, fmt.Errorf("idea generation for %s: %w", src.ID, err)
	}

	metrics.IdeasGenerated.Add(int64(len(ideas)))
	slog.Info("ideas generated", "source", src.ID, "count", len(ideas))
	return ideas, nil
}

// checkIdeas enforces the cardinality window and per-element shape.
// Fewer than MinIdeas is a total failure; more than MaxIdeas is
// truncated. Every surviving element must carry the three required
// strings and a known content type.
func checkIdeas(ideas []ContentIdea) ([]ContentIdea, error) {
	if len(ideas) < Cfg.MinIdeas {
		return nil, fmt.Errorf("model returned %d ideas, need at least %d", len(ideas), Cfg.MinIdeas)
	}
	if len(ideas) > Cfg.MaxIdeas {
		slog.Warn("truncating idea list", "got", len(ideas), "max", Cfg.MaxIdeas)
		ideas = ideas[:Cfg.MaxIdeas]
	}
	for i, idea := range ideas {
		if !KnownContentType(idea.SuggestedType) {
			return nil, fmt.Errorf("idea %d: unknown suggested_content_type %q", i, string(idea.SuggestedType))
		}
		if idea.SuggestedTitle == "" {
			return nil, fmt.Errorf("idea %d: missing suggested_title", i)
		}
		if idea.InspiringSnippet == "" {
			return nil, fmt.Errorf("idea %d: missing relevant_transcript_snippet", i)
		}
	}
	return ideas, nil
}
