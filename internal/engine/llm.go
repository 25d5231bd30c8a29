package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Generator is the single external text-generation call the pipeline
// depends on. Implementations must return parsed-ready JSON bytes or a
// *GenerationError; they never panic or throw past this boundary.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error)
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint
// (the Gemini compatibility layer by default), serialized behind a
// shared rate limiter.
type OpenAIGenerator struct {
	limiter     *RateLimiter
	model       string
	temperature float64
	maxTokens   int
	opts        []option.RequestOption
}

// NewOpenAIGenerator builds the production generator from config.
func NewOpenAIGenerator(c Config, limiter *RateLimiter) *OpenAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(c.LLMAPIKey)}
	if c.LLMAPIBase != "" {
		opts = append(opts, option.WithBaseURL(c.LLMAPIBase))
	}
	return &OpenAIGenerator{
		limiter:     limiter,
		model:       c.LLMModel,
		temperature: c.LLMTemperature,
		maxTokens:   c.LLMMaxTokens,
		opts:        opts,
	}
}

// Generate issues exactly one external call after acquiring a rate
// limiter slot. The response may be wrapped in a fenced code block;
// anything that is not valid JSON after stripping is a GenerationError.
func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, &GenerationError{Message: "rate limiter", Err: err}
	}

	metrics.LLMCalls.Add(1)

	client := openai.NewClient(g.opts...)
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(g.temperature),
	}
	if g.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(g.maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return nil, &GenerationError{Message: "chat completion call failed", Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.LLMErrors.Add(1)
		return nil, &GenerationError{Message: "empty model response"}
	}

	raw := stripFences(resp.Choices[0].Message.Content)
	if !json.Valid([]byte(raw)) {
		metrics.LLMErrors.Add(1)
		slog.Warn("llm: non-JSON response", slog.Int("len", len(raw)))
		return nil, &GenerationError{Message: "response is not valid JSON", Raw: raw}
	}
	return json.RawMessage(raw), nil
}

// GenerateJSON calls the generator and unmarshals the response into T.
// A decode mismatch is a GenerationError carrying the raw response so
// callers can build repair prompts from it.
func GenerateJSON[T any](ctx context.Context, g Generator, systemPrompt, userPrompt string) (*T, error) {
	raw, err := g.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &GenerationError{Message: "response does not match expected shape", Raw: string(raw), Err: err}
	}
	return &out, nil
}
