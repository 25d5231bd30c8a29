package repurposeserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HsnSaboor/repurpose/internal/engine"
)

// StylePresetsInput is the (empty) input for the style_presets tool.
type StylePresetsInput struct{}

// StylePresetsOutput is the output for the style_presets tool.
type StylePresetsOutput struct {
	Presets map[string]engine.StylePreset `json:"presets"`
}

func registerStylePresets(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "style_presets",
		Description: "List the bundled content style presets. Pass a preset id as style_preset to the repurpose tool, or supply custom_style to override.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ StylePresetsInput) (*mcp.CallToolResult, *StylePresetsOutput, error) {
		return nil, &StylePresetsOutput{Presets: engine.StylePresets()}, nil
	})
}
