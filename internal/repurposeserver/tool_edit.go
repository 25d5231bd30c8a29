package repurposeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HsnSaboor/repurpose/internal/engine"
)

// RepurposeEditInput is the input for the repurpose_edit tool.
type RepurposeEditInput struct {
	ContentID   string              `json:"content_id" jsonschema:"Id of the artifact to edit, e.g. 'dQw4w9WgXcQ_001'"`
	EditPrompt  string              `json:"edit_prompt" jsonschema:"Natural language description of the changes to make"`
	StylePreset string              `json:"style_preset,omitempty" jsonschema:"Content style preset id to apply while editing"`
	CustomStyle *engine.CustomStyle `json:"custom_style,omitempty" jsonschema:"Custom content style, overrides style_preset"`
}

// RepurposeEditOutput is the output for the repurpose_edit tool.
type RepurposeEditOutput struct {
	ContentID string          `json:"content_id"`
	Original  engine.Artifact `json:"original_content"`
	Edited    engine.Artifact `json:"edited_content"`
}

func registerRepurposeEdit(server *mcp.Server, store *engine.ArtifactStore) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "repurpose_edit",
		Description: "Apply a natural-language edit to a previously generated artifact. Only the requested changes are made; the result is re-validated against the schema limits and keeps its content id. Get ids from repurpose or session_get output.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input RepurposeEditInput) (*mcp.CallToolResult, *RepurposeEditOutput, error) {
		if input.ContentID == "" || input.EditPrompt == "" {
			return nil, nil, errors.New("content_id and edit_prompt are required")
		}

		original, err := store.GetArtifact(ctx, input.ContentID)
		if err != nil {
			return nil, nil, err
		}

		style := engine.RenderStyle(input.StylePreset, input.CustomStyle)
		edited, err := engine.EditContent(ctx, engine.Cfg.Generator, original, input.EditPrompt,
			engine.DefaultFieldLimits(), style)
		if err != nil {
			return nil, nil, err
		}
		if err := store.UpdateArtifact(ctx, edited); err != nil {
			return nil, nil, err
		}

		return nil, &RepurposeEditOutput{
			ContentID: input.ContentID,
			Original:  original,
			Edited:    edited,
		}, nil
	})
}
