package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

// ProcessOptions carries the per-request knobs of a batch run.
type ProcessOptions struct {
	StylePreset    string
	CustomStyle    *CustomStyle
	LimitOverrides FieldLimits // zero fields keep the defaults
}

func (o ProcessOptions) limits() FieldLimits {
	return DefaultFieldLimits().Merge(o.LimitOverrides)
}

// TitleSource is optionally implemented by a TrackSource that can also
// resolve a video's title.
type TitleSource interface {
	VideoTitle(ctx context.Context, videoID string) (string, error)
}

// Process runs the full pipeline over a raw input reference: normalize
// into sources, resolve each source's text, generate ideas, expand each
// idea through the repair loop. Sources run on a bounded worker pool;
// results come back in input order. Per-source failures are recorded in
// the outcome, never escalated to a batch error.
func Process(ctx context.Context, input string, opts ProcessOptions) ([]SourceOutcome, error) {
	refs, err := NormalizeInput(input)
	if err != nil {
		return nil, err
	}
	return processRefs(ctx, refs, opts), nil
}

func processRefs(ctx context.Context, refs []SourceRef, opts ProcessOptions) []SourceOutcome {
	limits := opts.limits()
	style := RenderStyle(opts.StylePreset, opts.CustomStyle)

	outcomes := make([]SourceOutcome, len(refs))
	sem := make(chan struct{}, cfg.Workers)
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, ref SourceRef) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = processSource(ctx, ref, limits, style, nil)
		}(i, ref)
	}
	wg.Wait()
	return outcomes
}

// processSource resolves one source and runs ideas plus expansion over
// it. Within a source, ideas run sequentially: each repair prompt
// depends on the previous raw output, so there is nothing to win by
// overlapping them. emit may be nil; when set, per-stage progress
// events are reported through it.
func processSource(ctx context.Context, ref SourceRef, limits FieldLimits, style string, emit func(ProgressEvent) error) SourceOutcome {
	out := SourceOutcome{Source: ref, Artifacts: []Artifact{}}

	text, title, err := resolveSource(ctx, ref, emit)
	if err != nil {
		metrics.SourcesSkipped.Add(1)
		slog.Warn("source skipped", "source", ref.ID, "kind", ref.Kind, "err", err)
		out.Skipped = true
		out.Reason = err.Error()
		return out
	}
	out.Title = title
	src := SourceText{ID: ref.ID, Kind: ref.Kind, Text: text, Title: title}

	sendEvent(emit, StageGeneratingIdeas, "generating content ideas", 60)
	ideas, err := GenerateIdeas(ctx, cfg.Generator, src, style)
	if err != nil {
		metrics.SourcesProcessed.Add(1)
		slog.Warn("source yielded no ideas", "source", ref.ID, "err", err)
		out.Reason = err.Error()
		return out
	}
	out.Ideas = len(ideas)
	sendEvent(emit, StageIdeasGenerated, fmt.Sprintf("%d ideas generated", len(ideas)), 75)

	for _, idea := range ideas {
		a, err := ExpandIdea(ctx, cfg.Generator, idea, src, limits, style)
		if err != nil {
			out.Failed = append(out.Failed, FailedIdea{
				Title:  idea.SuggestedTitle,
				Type:   idea.SuggestedType,
				Reason: err.Error(),
			})
			continue
		}
		out.Artifacts = append(out.Artifacts, a)
	}

	// Ids are dense over accepted artifacts: a rejected idea leaves no
	// gap in the sequence.
	for i, a := range out.Artifacts {
		a.setID(fmt.Sprintf("%s_%03d", ref.ID, i+1))
	}

	metrics.SourcesProcessed.Add(1)
	metrics.ArtifactsAccepted.Add(int64(len(out.Artifacts)))
	sendEvent(emit, StageContentGenerated,
		fmt.Sprintf("%d of %d ideas became artifacts", len(out.Artifacts), len(ideas)), 90)
	return out
}

// resolveSource turns a classified reference into usable text plus an
// optional title. Errors mean the source is skipped.
func resolveSource(ctx context.Context, ref SourceRef, emit func(ProgressEvent) error) (text, title string, err error) {
	sendEvent(emit, StageFetchingInfo, "resolving source "+ref.ID, 10)

	switch ref.Kind {
	case KindVideo:
		sendEvent(emit, StageTranscribing, "fetching transcript", 30)
		tr, err := AcquireTranscript(ctx, ref.Ref)
		if err != nil {
			return "", "", err
		}
		sendEvent(emit, StageTranscriptReady,
			fmt.Sprintf("transcript ready (%s, confidence %.1f)", tr.LanguageCode, tr.Confidence), 50)
		if ts, ok := cfg.Tracks.(TitleSource); ok {
			if t, err := ts.VideoTitle(ctx, ref.Ref); err == nil {
				title = t
			}
		}
		return tr.Text, title, nil

	case KindDocument:
		text, _, err := ExtractDocument(ref.Ref)
		if err != nil {
			return "", "", err
		}
		if err := checkSourceLen(text); err != nil {
			return "", "", err
		}
		return text, strings.TrimSuffix(filepath.Base(ref.Ref), filepath.Ext(ref.Ref)), nil

	case KindURL:
		if err := ValidateFetchURL(ref.Ref); err != nil {
			return "", "", err
		}
		title, text, err := FetchURLContent(ctx, ref.Ref)
		if err != nil {
			return "", "", err
		}
		if err := checkSourceLen(text); err != nil {
			return "", "", err
		}
		return text, title, nil

	case KindRawText:
		if err := checkSourceLen(ref.Ref); err != nil {
			return "", "", err
		}
		return ref.Ref, "", nil

	default:
		return "", "", fmt.Errorf("unknown source kind %q", ref.Kind)
	}
}

func checkSourceLen(text string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < cfg.MinTranscriptLen {
		return fmt.Errorf("source text too short: %d chars, need %d", n, cfg.MinTranscriptLen)
	}
	return nil
}

// ProcessStream is the streaming form of Process. Events go through
// emit in order, ending with a terminal complete event carrying the
// outcomes, or a terminal error event. An error returned from emit
// cancels the run; no goroutine outlives this call. Sources run
// sequentially here so the event order stays deterministic.
func ProcessStream(ctx context.Context, input string, opts ProcessOptions, emit func(ProgressEvent) error) error {
	if err := emit(ProgressEvent{Stage: StageStarted, Message: "processing started", Percent: 0}); err != nil {
		return err
	}

	refs, err := NormalizeInput(input)
	if err != nil {
		emitErr := emit(ProgressEvent{Stage: StageError, Message: err.Error(), Percent: 100})
		if emitErr != nil {
			return emitErr
		}
		return err
	}

	limits := opts.limits()
	style := RenderStyle(opts.StylePreset, opts.CustomStyle)

	var emitFailed error
	outcomes := make([]SourceOutcome, 0, len(refs))
	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		out := processSource(ctx, ref, limits, style, func(ev ProgressEvent) error {
			if emitFailed != nil {
				return emitFailed
			}
			if err := emit(ev); err != nil {
				emitFailed = err
			}
			return emitFailed
		})
		if emitFailed != nil {
			return emitFailed
		}
		outcomes = append(outcomes, out)
	}
	if err := ctx.Err(); err != nil {
		emitErr := emit(ProgressEvent{Stage: StageError, Message: err.Error(), Percent: 100})
		if emitErr != nil {
			return emitErr
		}
		return err
	}

	return emit(ProgressEvent{
		Stage:    StageComplete,
		Message:  "processing complete",
		Percent:  100,
		Outcomes: outcomes,
	})
}

// sendEvent forwards a progress event when emit is set. Emit failures
// during a source are recorded by the ProcessStream wrapper; here they
// only stop further events for that source.
func sendEvent(emit func(ProgressEvent) error, stage, message string, percent int) {
	if emit == nil {
		return
	}
	_ = emit(ProgressEvent{Stage: stage, Message: message, Percent: percent})
}
