// Package repurposeserver exposes the content repurposing pipeline as
// MCP tools. Tools stay thin: parse input, call the engine or the
// store, return JSON.
package repurposeserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HsnSaboor/repurpose/internal/engine"
)

// RegisterTools registers all repurposing tools on the given MCP server:
// repurpose, repurpose_edit, transcript_get, style_presets, session_get.
func RegisterTools(server *mcp.Server, store *engine.ArtifactStore) {
	registerRepurpose(server, store)
	registerRepurposeEdit(server, store)
	registerTranscriptGet(server)
	registerStylePresets(server)
	registerSessionGet(server, store)
}
