package repurposeserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HsnSaboor/repurpose/internal/engine"
)

// TranscriptGetInput is the input for the transcript_get tool.
type TranscriptGetInput struct {
	Video string `json:"video" jsonschema:"YouTube video ID or URL in any common shape (watch, youtu.be, shorts, embed)"`
}

// TranscriptGetOutput is the output for the transcript_get tool.
type TranscriptGetOutput struct {
	VideoID    string                   `json:"video_id"`
	Transcript *engine.TranscriptResult `json:"transcript"`
}

func registerTranscriptGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_get",
		Description: "Fetch the transcript of a YouTube video with language fallback (manual target language, then machine-generated, then server-side translation). Returns the text plus provenance: language, confidence score, and processing notes describing every fallback taken.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptGetInput) (*mcp.CallToolResult, *TranscriptGetOutput, error) {
		if input.Video == "" {
			return nil, nil, errors.New("video is required")
		}
		videoID := engine.ExtractVideoID(input.Video)
		if videoID == "" {
			return nil, nil, fmt.Errorf("not a recognizable YouTube reference: %q", input.Video)
		}

		tr, err := engine.AcquireTranscript(ctx, videoID)
		if err != nil {
			return nil, nil, err
		}
		return nil, &TranscriptGetOutput{VideoID: videoID, Transcript: tr}, nil
	})
}
