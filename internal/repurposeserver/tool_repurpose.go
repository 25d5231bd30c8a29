package repurposeserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HsnSaboor/repurpose/internal/engine"
	"github.com/HsnSaboor/repurpose/internal/toolutil"
)

// RepurposeInput is the input for the repurpose tool.
type RepurposeInput struct {
	Input           string              `json:"input" jsonschema:"Source reference: YouTube video ID or URL, article URL, path to a document or a .txt/.csv video list, raw text, or a comma-separated mix"`
	StylePreset     string              `json:"style_preset,omitempty" jsonschema:"Content style preset id (see style_presets tool)"`
	CustomStyle     *engine.CustomStyle `json:"custom_style,omitempty" jsonschema:"Custom content style, overrides style_preset"`
	Limits          *engine.FieldLimits `json:"field_limits,omitempty" jsonschema:"Per-request field limit overrides; unset fields keep defaults"`
	ForceRegenerate bool                `json:"force_regenerate,omitempty" jsonschema:"Skip the result cache and regenerate"`
}

// RepurposeOutput is the output for the repurpose tool.
type RepurposeOutput struct {
	SessionID string                 `json:"session_id"`
	Outcomes  []engine.SourceOutcome `json:"outcomes"`
}

func registerRepurpose(server *mcp.Server, store *engine.ArtifactStore) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "repurpose",
		Description: "Turn long-form sources (YouTube videos, articles, documents, raw text) into validated short-form social content: short video scripts, image carousels, and micro posts. Accepts a single reference or a comma-separated batch. Returns per-source outcomes with generated artifacts and a session id for later lookup and editing.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input RepurposeInput) (*mcp.CallToolResult, *RepurposeOutput, error) {
		if input.Input == "" {
			return nil, nil, errors.New("input is required")
		}

		opts := engine.ProcessOptions{
			StylePreset: input.StylePreset,
			CustomStyle: input.CustomStyle,
		}
		if input.Limits != nil {
			opts.LimitOverrides = *input.Limits
		}

		cacheKey := engine.CacheKey("repurpose", input.Input, input.StylePreset,
			fmt.Sprintf("%+v", opts.LimitOverrides), fmt.Sprintf("%+v", input.CustomStyle))
		if !input.ForceRegenerate {
			if out, ok := toolutil.CacheLoadJSON[RepurposeOutput](ctx, cacheKey); ok {
				return nil, &out, nil
			}
		}

		outcomes, err := engine.Process(ctx, input.Input, opts)
		if err != nil {
			return nil, nil, err
		}

		sessionID, err := store.SaveSession(ctx, input.Input, input.StylePreset, outcomes)
		if err != nil {
			slog.Error("session save failed", "err", err)
			return nil, nil, err
		}

		out := RepurposeOutput{SessionID: sessionID, Outcomes: outcomes}
		toolutil.CacheStoreJSON(ctx, cacheKey, out)
		return nil, &out, nil
	})
}
