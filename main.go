// repurpose — Content Repurposing MCP server.
//
// Turns long-form sources (YouTube videos, articles, documents, raw
// text) into validated short-form social content through an LLM
// pipeline with schema validation and bounded repair.
//
// Exposes five MCP tools: repurpose, repurpose_edit, transcript_get,
// style_presets, session_get. Runs as HTTP MCP server or stdio
// transport.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HsnSaboor/repurpose/internal/engine"
	"github.com/HsnSaboor/repurpose/internal/engine/sources"
	"github.com/HsnSaboor/repurpose/internal/repurposeserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	store, err := engine.OpenStore(env.Str("REPURPOSE_DB_PATH", ""))
	if err != nil {
		slog.Error("store init failed", slog.Any("error", err))
		return
	}
	defer store.Close()

	slog.Info("starting repurpose",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "repurpose",
		Version: version,
	}, nil)

	repurposeserver.RegisterTools(server, store)
	slog.Info("tools registered", slog.Int("count", 5))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "repurpose",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 16384),
		RPMLimit:             env.Int("LLM_RPM_LIMIT", 10),
		DailyLimit:           env.Int("LLM_DAILY_LIMIT", 1500),
		TargetLanguage:       env.Str("TARGET_LANGUAGE", "en"),
		FallbackLanguages:    env.List("FALLBACK_LANGUAGES", "en,es,fr,de"),
		MinTranscriptLen:     env.Int("MIN_TRANSCRIPT_LEN", 50),
		MinIdeas:             env.Int("MIN_IDEAS", 1),
		MaxIdeas:             env.Int("MAX_IDEAS", 10),
		Workers:              env.Int("WORKERS", 10),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		MaxContentChars:      env.Int("MAX_CONTENT_CHARS", 60000),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		Tracks: sources.NewClient(),
	}

	limiter := engine.NewRateLimiter(c.RPMLimit, time.Minute, c.DailyLimit)
	c.Generator = engine.NewOpenAIGenerator(c, limiter)

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", engine.CacheTTL)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
