package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/HsnSaboor/repurpose/internal/engine"
)

// YouTube caption track listing and fetching.
// Primary:  ANDROID Innertube /player → captionTracks  (works from non-blocked IPs)
// Fallback: scrape watch page ytInitialPlayerResponse  (works from any IP)

// Client implements engine.TrackSource over the Innertube API. A small
// rate limiter spaces outbound fetches so bulk runs do not hammer
// YouTube; the player response is cached per video so listing tracks
// and resolving the title costs one upstream call.
type Client struct {
	fetch *rate.Limiter

	mu     sync.Mutex
	player map[string]*innertubePlayerResp
}

// NewClient builds a client with a 2 req/s fetch ceiling.
func NewClient() *Client {
	return &Client{
		fetch:  rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		player: make(map[string]*innertubePlayerResp),
	}
}

// ListTracks returns every caption track of a video, PoToken-locked
// tracks excluded since they cannot be fetched server-side.
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]engine.CaptionTrack, error) {
	resp, err := c.playerResponse(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if resp.Captions == nil {
		reason := "no captions in player response"
		if resp.PlayabilityStatus != nil && resp.PlayabilityStatus.Reason != "" {
			reason = resp.PlayabilityStatus.Reason
		}
		return nil, &engine.TranscriptUnavailableError{VideoID: videoID, Reason: reason}
	}

	raw := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	tracks := make([]engine.CaptionTrack, 0, len(raw))
	for _, t := range raw {
		if needsPoToken(t.BaseURL) {
			continue
		}
		tracks = append(tracks, engine.CaptionTrack{
			LanguageCode:   t.LanguageCode,
			LanguageName:   t.displayName(),
			IsGenerated:    t.Kind == "asr",
			IsTranslatable: t.IsTranslatable,
			BaseURL:        t.BaseURL,
		})
	}
	if len(tracks) == 0 {
		return nil, &engine.TranscriptUnavailableError{VideoID: videoID, Reason: "no usable caption tracks"}
	}
	return tracks, nil
}

// FetchTrack downloads a caption track as plain text. A non-empty
// translateTo requests server-side translation via the tlang parameter.
func (c *Client) FetchTrack(ctx context.Context, videoID string, track engine.CaptionTrack, translateTo string) (string, error) {
	fetchURL := track.BaseURL
	if translateTo != "" {
		if !track.IsTranslatable {
			return "", fmt.Errorf("track %s of %s is not translatable", track.LanguageCode, videoID)
		}
		fetchURL += "&tlang=" + translateTo
	}
	if err := c.fetch.Wait(ctx); err != nil {
		return "", err
	}
	return fetchTimedText(ctx, fetchURL)
}

// VideoTitle resolves the video's title from the cached player response.
func (c *Client) VideoTitle(ctx context.Context, videoID string) (string, error) {
	resp, err := c.playerResponse(ctx, videoID)
	if err != nil {
		return "", err
	}
	if resp.VideoDetails == nil || resp.VideoDetails.Title == "" {
		return "", fmt.Errorf("no title for video %s", videoID)
	}
	return resp.VideoDetails.Title, nil
}

// playerResponse fetches (or returns the cached) /player response for
// a video, falling back to a watch-page scrape when the API refuses.
func (c *Client) playerResponse(ctx context.Context, videoID string) (*innertubePlayerResp, error) {
	c.mu.Lock()
	if resp, ok := c.player[videoID]; ok {
		c.mu.Unlock()
		return resp, nil
	}
	c.mu.Unlock()

	if err := c.fetch.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := fetchPlayerAndroid(ctx, videoID)
	if err != nil || resp.Captions == nil {
		scraped, scrapeErr := fetchPlayerFromWatchPage(ctx, videoID)
		if scrapeErr == nil {
			resp, err = scraped, nil
		} else if err == nil {
			err = scrapeErr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("youtube player for %s: %w", videoID, err)
	}

	c.mu.Lock()
	if len(c.player) >= 512 {
		c.player = make(map[string]*innertubePlayerResp)
	}
	c.player[videoID] = resp
	c.mu.Unlock()
	return resp, nil
}

// fetchPlayerAndroid POSTs to the ANDROID Innertube /player endpoint.
func fetchPlayerAndroid(ctx context.Context, videoID string) (*innertubePlayerResp, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytPlayerURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return &playerResp, nil
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchPlayerFromWatchPage scrapes the watch page HTML and extracts
// ytInitialPlayerResponse.
func fetchPlayerFromWatchPage(ctx context.Context, videoID string) (*innertubePlayerResp, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &playerResp, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", err
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := engine.CleanHTML(line.Text)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// extractJSON returns the first balanced JSON object at the start of b.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}
