package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SourcesProcessed    atomic.Int64
	SourcesSkipped      atomic.Int64
	TranscriptRequests  atomic.Int64
	TranscriptFailures  atomic.Int64
	URLFetchRequests    atomic.Int64
	URLFetchErrors      atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
	IdeasGenerated      atomic.Int64
	ArtifactsAccepted   atomic.Int64
	RepairAttempts      atomic.Int64
	IdeasExhausted      atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"sources_processed":   metrics.SourcesProcessed.Load(),
		"sources_skipped":     metrics.SourcesSkipped.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_failures": metrics.TranscriptFailures.Load(),
		"url_fetch_requests":  metrics.URLFetchRequests.Load(),
		"url_fetch_errors":    metrics.URLFetchErrors.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"ideas_generated":     metrics.IdeasGenerated.Load(),
		"artifacts_accepted":  metrics.ArtifactsAccepted.Load(),
		"repair_attempts":     metrics.RepairAttempts.Load(),
		"ideas_exhausted":     metrics.IdeasExhausted.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics renders the counters as a plain-text report for the
// server's metrics endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"sources_processed", "sources_skipped",
		"transcript_requests", "transcript_failures",
		"url_fetch_requests", "url_fetch_errors",
		"llm_calls", "llm_errors",
		"ideas_generated", "artifacts_accepted", "repair_attempts", "ideas_exhausted",
		"cache_hits", "cache_misses",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
