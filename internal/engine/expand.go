package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// maxRepairs bounds the validation repair loop per idea.
const maxRepairs = 2

// ExpandIdea turns one idea into a validated artifact. On validation
// failure it asks the model to fix the exact violations, up to
// maxRepairs times, quoting the previous raw output each time. Returns
// the artifact with an empty id; the orchestrator assigns ids over
// accepted artifacts only.
func ExpandIdea(ctx context.Context, gen Generator, idea ContentIdea, src SourceText, limits FieldLimits, style string) (Artifact, error) {
	system := buildContentSystemPrompt(limits, style)

	ideaJSON, err := json.MarshalIndent(idea, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode idea: %w", err)
	}
	user := fmt.Sprintf(contentUserPromptTmpl, ideaJSON, src.Text)

	raw, err := gen.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", idea.SuggestedTitle, err)
	}

	var verr *ValidationError
	for attempt := 0; ; attempt++ {
		a, v := checkArtifact(raw, limits)
		if v == nil && a.Type() != idea.SuggestedType {
			// A valid artifact of the wrong variant is still wrong:
			// a carousel idea must come back as a carousel.
			v = &ValidationError{ContentType: idea.SuggestedType, Violations: []FieldViolation{{
				Field:      "content_type",
				Constraint: "mismatch",
				Message:    fmt.Sprintf("is %q, the idea calls for %q", a.Type(), idea.SuggestedType),
			}}}
		}
		if v == nil {
			a.setID("")
			return a, nil
		}
		verr = v
		if attempt >= maxRepairs {
			break
		}

		metrics.RepairAttempts.Add(1)
		slog.Info("repairing artifact", "idea", idea.SuggestedTitle,
			"attempt", attempt+1, "violations", len(v.Violations))

		fix := buildRepairPrompt(v, string(ideaJSON), string(raw))
		raw, err = gen.Generate(ctx, system, fix)
		if err != nil {
			return nil, fmt.Errorf("repair %q: %w", idea.SuggestedTitle, err)
		}
	}

	metrics.IdeasExhausted.Add(1)
	slog.Warn("idea exhausted after repairs", "idea", idea.SuggestedTitle, "err", verr)
	return nil, fmt.Errorf("expand %q: %w", idea.SuggestedTitle, verr)
}

// checkArtifact decodes raw and validates it against limits in one
// all-or-nothing step. A decode failure is reported as a violation so
// the repair path handles it like any other invalid output.
func checkArtifact(raw json.RawMessage, limits FieldLimits) (Artifact, *ValidationError) {
	a, err := decodeArtifact(raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, &ValidationError{Violations: []FieldViolation{{
			Field:      "$",
			Constraint: "json",
			Message:    err.Error(),
		}}}
	}
	if verr := Validate(a, limits); verr != nil {
		return nil, verr
	}
	return a, nil
}

// EditContent applies a natural-language edit instruction to an
// existing artifact. The result must keep the same content type and
// pass full validation; the original id is preserved on the edited
// artifact. Single attempt, no repair loop: an edit that breaks
// validation is surfaced to the caller instead of being rewritten
// further from what they asked for.
func EditContent(ctx context.Context, gen Generator, original Artifact, editPrompt string, limits FieldLimits, style string) (Artifact, error) {
	origJSON, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}

	system := fmt.Sprintf(editSystemPromptTmpl, style)
	user := fmt.Sprintf(editUserPromptTmpl, origJSON, editPrompt, string(original.Type()))

	raw, err := gen.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", original.ArtifactID(), err)
	}

	edited, verr := checkArtifact(raw, limits)
	if verr != nil {
		return nil, fmt.Errorf("edit %s: %w", original.ArtifactID(), verr)
	}
	if edited.Type() != original.Type() {
		return nil, fmt.Errorf("edit %s: model changed content_type from %s to %s",
			original.ArtifactID(), original.Type(), edited.Type())
	}

	edited.setID(original.ArtifactID())
	return edited, nil
}
