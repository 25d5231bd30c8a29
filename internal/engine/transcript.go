package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// CaptionTrack describes one transcript track offered for a video.
type CaptionTrack struct {
	LanguageCode   string `json:"language_code"`
	LanguageName   string `json:"language_name"`
	IsGenerated    bool   `json:"is_generated"`
	IsTranslatable bool   `json:"is_translatable"`
	BaseURL        string `json:"-"`
}

// TrackSource lists and fetches caption tracks. The production
// implementation lives in the sources package; tests use fakes.
type TrackSource interface {
	ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
	// FetchTrack returns the plain text of a track. A non-empty
	// translateTo requests machine translation into that language.
	FetchTrack(ctx context.Context, videoID string, track CaptionTrack, translateTo string) (string, error)
}

// Confidence scores by acquisition path. These encode how much the
// downstream generation should trust the transcript text.
const (
	confManualTarget     = 1.0
	confGeneratedTarget  = 0.8
	confManualTranslated = 0.7
	confAutoTranslated   = 0.5
)

// AcquireTranscript fetches the best available transcript for a video,
// walking a strict priority chain: manual in the target language,
// machine-generated in the target language, manual in a fallback
// language translated, machine-generated translated. Every fallback
// transition is recorded in the result notes.
func AcquireTranscript(ctx context.Context, videoID string) (*TranscriptResult, error) {
	metrics.TranscriptRequests.Add(1)

	target := cfg.TargetLanguage
	cacheKey := CacheKey("transcript", videoID, target)
	if data, ok := CacheGet(ctx, cacheKey); ok {
		var cached TranscriptResult
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.Notes = append(cached.Notes, "retrieved from cache")
			return &cached, nil
		}
		// Corrupt entry: fall through to a fresh lookup.
	}

	result, err := acquireFresh(ctx, videoID, target)
	if err != nil {
		metrics.TranscriptFailures.Add(1)
		return nil, err
	}

	if data, mErr := json.Marshal(result); mErr == nil {
		CacheSet(ctx, cacheKey, data)
	}
	return result, nil
}

func acquireFresh(ctx context.Context, videoID, target string) (*TranscriptResult, error) {
	tracks, err := cfg.Tracks.ListTracks(ctx, videoID)
	if err != nil {
		return nil, &TranscriptUnavailableError{VideoID: videoID, Reason: err.Error()}
	}
	if len(tracks) == 0 {
		return nil, &TranscriptUnavailableError{VideoID: videoID, Reason: "no caption tracks"}
	}

	var notes []string

	// 1. Manual transcript in the target language.
	if t, ok := findTrack(tracks, target, false); ok {
		return fetchAsResult(ctx, videoID, t, "", confManualTarget, notes)
	}
	notes = append(notes, fmt.Sprintf("no manual %s transcript, trying machine-generated", target))

	// 2. Machine-generated transcript in the target language.
	if t, ok := findTrack(tracks, target, true); ok {
		return fetchAsResult(ctx, videoID, t, "", confGeneratedTarget, notes)
	}
	notes = append(notes, fmt.Sprintf("no %s transcript at all, falling back to translation", target))

	// 3. Manual transcript in a fallback language, translated.
	if t, ok := findTranslatable(tracks, target, false); ok {
		notes = append(notes, fmt.Sprintf("translating manual %s (%s) transcript to %s", t.LanguageName, t.LanguageCode, target))
		return fetchAsResult(ctx, videoID, t, target, confManualTranslated, notes)
	}
	notes = append(notes, "no manual transcript in any fallback language")

	// 4. Machine-generated transcript in a fallback language, translated.
	if t, ok := findTranslatable(tracks, target, true); ok {
		notes = append(notes, fmt.Sprintf("translating machine-generated %s (%s) transcript to %s", t.LanguageName, t.LanguageCode, target))
		return fetchAsResult(ctx, videoID, t, target, confAutoTranslated, notes)
	}

	return nil, &TranscriptUnavailableError{VideoID: videoID, Reason: "no usable track after full fallback chain"}
}

func findTrack(tracks []CaptionTrack, lang string, generated bool) (CaptionTrack, bool) {
	for _, t := range tracks {
		if equalLang(t.LanguageCode, lang) && t.IsGenerated == generated {
			return t, true
		}
	}
	return CaptionTrack{}, false
}

// findTranslatable picks the first translatable non-target track,
// honoring the configured fallback language order before anything else.
func findTranslatable(tracks []CaptionTrack, target string, generated bool) (CaptionTrack, bool) {
	candidates := func(match func(CaptionTrack) bool) (CaptionTrack, bool) {
		for _, lang := range cfg.FallbackLanguages {
			if equalLang(lang, target) {
				continue
			}
			for _, t := range tracks {
				if equalLang(t.LanguageCode, lang) && match(t) {
					return t, true
				}
			}
		}
		for _, t := range tracks {
			if !equalLang(t.LanguageCode, target) && match(t) {
				return t, true
			}
		}
		return CaptionTrack{}, false
	}
	return candidates(func(t CaptionTrack) bool {
		return t.IsGenerated == generated && t.IsTranslatable
	})
}

func fetchAsResult(ctx context.Context, videoID string, track CaptionTrack, translateTo string, confidence float64, notes []string) (*TranscriptResult, error) {
	text, err := cfg.Tracks.FetchTrack(ctx, videoID, track, translateTo)
	if err != nil {
		return nil, &TranscriptUnavailableError{VideoID: videoID, Reason: fmt.Sprintf("fetch %s track: %v", track.LanguageCode, err)}
	}
	if n := utf8.RuneCountInString(text); n < cfg.MinTranscriptLen {
		return nil, &TranscriptUnavailableError{
			VideoID: videoID,
			Reason:  fmt.Sprintf("transcript has %d characters, need at least %d", n, cfg.MinTranscriptLen),
		}
	}

	translated := translateTo != ""
	langCode := track.LanguageCode
	sourceLang := ""
	if translated {
		langCode = translateTo
		sourceLang = track.LanguageCode
		notes = append(notes, fmt.Sprintf("translated from %s (%s)", track.LanguageName, track.LanguageCode))
	}

	slog.Info("transcript acquired",
		slog.String("video_id", videoID),
		slog.String("language", langCode),
		slog.Bool("translated", translated),
		slog.Float64("confidence", confidence),
	)

	return &TranscriptResult{
		Text:               text,
		LanguageCode:       langCode,
		LanguageName:       track.LanguageName,
		IsMachineGenerated: track.IsGenerated,
		IsTranslated:       translated,
		SourceLanguage:     sourceLang,
		Confidence:         confidence,
		Notes:              notes,
	}, nil
}

// equalLang compares language codes ignoring case and region suffixes
// ("en-US" matches "en").
func equalLang(a, b string) bool {
	norm := func(s string) string {
		if len(s) > 2 && (s[2] == '-' || s[2] == '_') {
			s = s[:2]
		}
		return s
	}
	return a != "" && b != "" && strings.EqualFold(norm(a), norm(b))
}
