package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routingGenerator answers idea prompts with a fixed envelope and
// content prompts with per-type payloads. It is stateless, so the
// worker pool can hit it concurrently.
type routingGenerator struct {
	ideas     string
	microPost string
	shortVid  string
}

func (g *routingGenerator) Generate(_ context.Context, system, user string) (json.RawMessage, error) {
	switch {
	case strings.Contains(system, "repurposable content ideas"):
		return json.RawMessage(g.ideas), nil
	case strings.Contains(user, `"suggested_content_type": "micro_post"`):
		return json.RawMessage(g.microPost), nil
	default:
		return json.RawMessage(g.shortVid), nil
	}
}

const (
	twoIdeasJSON = `{"ideas":[
		{"suggested_content_type":"micro_post","suggested_title":"Post idea","relevant_transcript_snippet":"q1"},
		{"suggested_content_type":"short_video","suggested_title":"Video idea","relevant_transcript_snippet":"q2"}]}`
	oneIdeaJSON = `{"ideas":[
		{"suggested_content_type":"short_video","suggested_title":"Video idea","relevant_transcript_snippet":"q"}]}`

	goodMicroPostJSON = `{"content_type":"micro_post","title":"Post idea","body_text":"Short and useful."}`
)

func englishTracks() *fakeTracks {
	return &fakeTracks{
		tracks: []CaptionTrack{{LanguageCode: "en", LanguageName: "English"}},
		text:   longText,
	}
}

func initOrchestratorTest(t *testing.T, f *fakeTracks, gen Generator) {
	t.Helper()
	Init(Config{Tracks: f, Generator: gen, Workers: 2})
}

func TestProcessSingleVideo(t *testing.T) {
	gen := &routingGenerator{
		ideas:     twoIdeasJSON,
		microPost: goodMicroPostJSON,
		shortVid:  validShortVideoJSON,
	}
	initOrchestratorTest(t, englishTracks(), gen)

	outcomes, err := Process(context.Background(), "dQw4w9WgXcQ", ProcessOptions{})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	out := outcomes[0]
	assert.False(t, out.Skipped)
	assert.Equal(t, 2, out.Ideas)
	require.Len(t, out.Artifacts, 2)
	assert.Equal(t, "dQw4w9WgXcQ_001", out.Artifacts[0].ArtifactID())
	assert.Equal(t, "dQw4w9WgXcQ_002", out.Artifacts[1].ArtifactID())
	assert.Empty(t, out.Failed)
}

func TestProcessPartialFailureKeepsDenseIDs(t *testing.T) {
	// The micro_post idea comes first and never validates, even after
	// repairs; the short_video idea behind it must still land at _001.
	gen := &routingGenerator{
		ideas:     twoIdeasJSON,
		microPost: `{"content_type":"micro_post","title":"Post idea","body_text":"` + strings.Repeat("x", 300) + `"}`,
		shortVid:  validShortVideoJSON,
	}
	initOrchestratorTest(t, englishTracks(), gen)

	outcomes, err := Process(context.Background(), "jNQXAC9IVRw", ProcessOptions{})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	out := outcomes[0]
	assert.Equal(t, 2, out.Ideas)
	require.Len(t, out.Artifacts, 1)
	assert.Equal(t, "jNQXAC9IVRw_001", out.Artifacts[0].ArtifactID())
	assert.Equal(t, TypeShortVideo, out.Artifacts[0].Type())

	require.Len(t, out.Failed, 1)
	assert.Equal(t, TypeMicroPost, out.Failed[0].Type)
	assert.Equal(t, "Post idea", out.Failed[0].Title)
	assert.Contains(t, out.Failed[0].Reason, "max_length")
}

func TestProcessSkippedSource(t *testing.T) {
	f := &fakeTracks{listErr: errors.New("video unavailable")}
	gen := &routingGenerator{ideas: oneIdeaJSON, shortVid: validShortVideoJSON}
	initOrchestratorTest(t, f, gen)

	outcomes, err := Process(context.Background(), "aBcDeFgHiJk", ProcessOptions{})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	out := outcomes[0]
	assert.True(t, out.Skipped)
	assert.NotEmpty(t, out.Reason)
	assert.Empty(t, out.Artifacts)
	assert.Zero(t, out.Ideas)
}

func TestProcessBatchKeepsInputOrder(t *testing.T) {
	gen := &routingGenerator{ideas: oneIdeaJSON, shortVid: validShortVideoJSON}
	initOrchestratorTest(t, englishTracks(), gen)

	outcomes, err := Process(context.Background(), "zZ5yX4wV3uT,9bZkp7q19f0", ProcessOptions{})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "zZ5yX4wV3uT", outcomes[0].Source.ID)
	assert.Equal(t, "9bZkp7q19f0", outcomes[1].Source.ID)
	require.Len(t, outcomes[0].Artifacts, 1)
	assert.Equal(t, "zZ5yX4wV3uT_001", outcomes[0].Artifacts[0].ArtifactID())
	assert.Equal(t, "9bZkp7q19f0_001", outcomes[1].Artifacts[0].ArtifactID())
}

// selectiveTracks fails track listing for exactly one video.
type selectiveTracks struct {
	*fakeTracks
	failID string
}

func (s *selectiveTracks) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	if videoID == s.failID {
		return nil, errors.New("video unavailable")
	}
	return s.fakeTracks.ListTracks(ctx, videoID)
}

func TestProcessBatchIsolatesFailedSource(t *testing.T) {
	f := &selectiveTracks{fakeTracks: englishTracks(), failID: "fFgGhHiIjJ2"}
	gen := &routingGenerator{ideas: oneIdeaJSON, shortVid: validShortVideoJSON}
	Init(Config{Tracks: f, Generator: gen, Workers: 2})

	outcomes, err := Process(context.Background(), "aAbBcCdDeE1,fFgGhHiIjJ2,kKlLmMnNoO3", ProcessOptions{})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.False(t, outcomes[0].Skipped)
	assert.Len(t, outcomes[0].Artifacts, 1)

	assert.True(t, outcomes[1].Skipped)
	assert.NotEmpty(t, outcomes[1].Reason)
	assert.Empty(t, outcomes[1].Artifacts)

	assert.False(t, outcomes[2].Skipped)
	assert.Len(t, outcomes[2].Artifacts, 1)
}

func TestProcessStreamEventSequence(t *testing.T) {
	gen := &routingGenerator{ideas: oneIdeaJSON, shortVid: validShortVideoJSON}
	initOrchestratorTest(t, englishTracks(), gen)

	var events []ProgressEvent
	err := ProcessStream(context.Background(), "LmNoPqRsTuV", ProcessOptions{}, func(ev ProgressEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)

	wantStages := []string{
		StageStarted, StageFetchingInfo, StageTranscribing, StageTranscriptReady,
		StageGeneratingIdeas, StageIdeasGenerated, StageContentGenerated, StageComplete,
	}
	wantPercents := []int{0, 10, 30, 50, 60, 75, 90, 100}
	require.Len(t, events, len(wantStages))
	for i, ev := range events {
		assert.Equal(t, wantStages[i], ev.Stage, "event %d", i)
		assert.Equal(t, wantPercents[i], ev.Percent, "event %d", i)
	}

	final := events[len(events)-1]
	require.Len(t, final.Outcomes, 1)
	assert.Len(t, final.Outcomes[0].Artifacts, 1)
}

func TestProcessStreamEmitErrorCancels(t *testing.T) {
	gen := &routingGenerator{ideas: oneIdeaJSON, shortVid: validShortVideoJSON}
	initOrchestratorTest(t, englishTracks(), gen)

	boom := errors.New("client went away")
	seen := 0
	err := ProcessStream(context.Background(), "pQrStUvWxYz", ProcessOptions{}, func(ev ProgressEvent) error {
		seen++
		if seen == 3 {
			return boom
		}
		require.NotEqual(t, StageComplete, ev.Stage)
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, seen)
}

func TestProcessStreamBadInput(t *testing.T) {
	gen := &routingGenerator{ideas: oneIdeaJSON, shortVid: validShortVideoJSON}
	initOrchestratorTest(t, englishTracks(), gen)

	var stages []string
	err := ProcessStream(context.Background(), "", ProcessOptions{}, func(ev ProgressEvent) error {
		stages = append(stages, ev.Stage)
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, []string{StageStarted, StageError}, stages)
}
