package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	RPMLimit   int // model calls per rolling minute
	DailyLimit int // model calls per day, 0 = unlimited

	TargetLanguage    string   // transcript target, default "en"
	FallbackLanguages []string // translation source candidates, in order
	MinTranscriptLen  int      // shorter transcripts are unusable

	MinIdeas int
	MaxIdeas int
	Workers  int // batch worker pool size

	FetchTimeout    time.Duration
	MaxContentChars int // cap for extracted URL/document text

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client

	// Generator is the rate-limited model client. Tests inject fakes.
	Generator Generator

	// Tracks lists and fetches caption tracks for video sources.
	Tracks TrackSource
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration, filling in
// defaults for anything unset.
func Init(c Config) {
	if c.TargetLanguage == "" {
		c.TargetLanguage = "en"
	}
	if len(c.FallbackLanguages) == 0 {
		c.FallbackLanguages = []string{"en", "es", "fr", "de"}
	}
	if c.MinTranscriptLen == 0 {
		c.MinTranscriptLen = 50
	}
	if c.MinIdeas == 0 {
		c.MinIdeas = 1
	}
	if c.MaxIdeas == 0 {
		c.MaxIdeas = 10
	}
	if c.Workers == 0 {
		c.Workers = 10
	}
	if c.RPMLimit == 0 {
		c.RPMLimit = 10
	}
	if c.DailyLimit == 0 {
		c.DailyLimit = 1500
	}
	if c.MaxContentChars == 0 {
		c.MaxContentChars = 60000
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg = c
	Cfg = &cfg
}
