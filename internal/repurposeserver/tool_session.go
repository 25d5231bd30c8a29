package repurposeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HsnSaboor/repurpose/internal/engine"
)

// SessionGetInput is the input for the session_get tool.
type SessionGetInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id returned by the repurpose tool"`
}

func registerSessionGet(server *mcp.Server, store *engine.ArtifactStore) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_get",
		Description: "Look up a stored repurposing session by id, including every per-source outcome and generated artifact.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SessionGetInput) (*mcp.CallToolResult, *engine.SessionRecord, error) {
		if input.SessionID == "" {
			return nil, nil, errors.New("session_id is required")
		}
		rec, err := store.GetSession(ctx, input.SessionID)
		if err != nil {
			return nil, nil, err
		}
		return nil, rec, nil
	})
}
