package engine

import (
	"encoding/json"
	"fmt"
)

// ContentType discriminates the three artifact shapes. The set is
// closed: anything else from the model is a validation failure on the
// content_type field, repaired like any other violation.
type ContentType string

const (
	TypeShortVideo ContentType = "short_video"
	TypeCarousel   ContentType = "carousel"
	TypeMicroPost  ContentType = "micro_post"
)

// KnownContentType reports whether t is one of the three variants.
func KnownContentType(t ContentType) bool {
	switch t {
	case TypeShortVideo, TypeCarousel, TypeMicroPost:
		return true
	}
	return false
}

// Artifact is a fully generated, schema-valid content piece. The id is
// assigned by the orchestrator after validation; whatever the model put
// there is discarded.
type Artifact interface {
	ArtifactID() string
	Type() ContentType
	Title() string

	setID(id string)
}

// ShortVideo is a short-form video script.
type ShortVideo struct {
	ID                string      `json:"content_id"`
	ContentType       ContentType `json:"content_type"`
	VideoTitle        string      `json:"title"`
	Caption           string      `json:"caption,omitempty"`
	Hook              string      `json:"hook"`
	ScriptBody        string      `json:"script_body"`
	VisualSuggestions string      `json:"visual_suggestions,omitempty"`
	Hashtags          []string    `json:"hashtags,omitempty"`
}

func (a *ShortVideo) ArtifactID() string { return a.ID }
func (a *ShortVideo) Type() ContentType  { return TypeShortVideo }
func (a *ShortVideo) Title() string      { return a.VideoTitle }
func (a *ShortVideo) setID(id string)    { a.ID = id }

// Slide is one panel of a carousel.
type Slide struct {
	SlideNumber int    `json:"slide_number"`
	StepNumber  int    `json:"step_number"`
	StepHeading string `json:"step_heading"`
	Text        string `json:"text"`
}

// Carousel is a multi-slide image post.
type Carousel struct {
	ID            string      `json:"content_id"`
	ContentType   ContentType `json:"content_type"`
	CarouselTitle string      `json:"title"`
	Caption       string      `json:"caption,omitempty"`
	Slides        []Slide     `json:"slides"`
	Hashtags      []string    `json:"hashtags,omitempty"`
}

func (a *Carousel) ArtifactID() string { return a.ID }
func (a *Carousel) Type() ContentType  { return TypeCarousel }
func (a *Carousel) Title() string      { return a.CarouselTitle }
func (a *Carousel) setID(id string)    { a.ID = id }

// MicroPost is a short text post with an optional thread.
type MicroPost struct {
	ID                 string      `json:"content_id"`
	ContentType        ContentType `json:"content_type"`
	PostTitle          string      `json:"title"`
	BodyText           string      `json:"body_text"`
	ThreadContinuation []string    `json:"thread_continuation,omitempty"`
	Hashtags           []string    `json:"hashtags,omitempty"`
}

func (a *MicroPost) ArtifactID() string { return a.ID }
func (a *MicroPost) Type() ContentType  { return TypeMicroPost }
func (a *MicroPost) Title() string      { return a.PostTitle }
func (a *MicroPost) setID(id string)    { a.ID = id }

// UnmarshalJSON decodes the artifact list through the content_type
// discriminator so stored and cached outcomes come back as concrete
// variants.
func (o *SourceOutcome) UnmarshalJSON(data []byte) error {
	type alias SourceOutcome
	aux := struct {
		*alias
		Artifacts []json.RawMessage `json:"artifacts"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.Artifacts = make([]Artifact, 0, len(aux.Artifacts))
	for _, raw := range aux.Artifacts {
		a, err := decodeArtifact(raw)
		if err != nil {
			return err
		}
		o.Artifacts = append(o.Artifacts, a)
	}
	return nil
}

// probeType reads just the content_type discriminator from raw JSON.
func probeType(raw []byte) (ContentType, error) {
	var probe struct {
		ContentType ContentType `json:"content_type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", fmt.Errorf("decode content_type: %w", err)
	}
	return probe.ContentType, nil
}

// decodeArtifact unmarshals raw into the variant matching its
// content_type discriminator. It does not validate field limits; that
// is Validate's job.
func decodeArtifact(raw []byte) (Artifact, error) {
	t, err := probeType(raw)
	if err != nil {
		return nil, err
	}
	switch t {
	case TypeShortVideo:
		var a ShortVideo
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode short_video: %w", err)
		}
		return &a, nil
	case TypeCarousel:
		var a Carousel
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode carousel: %w", err)
		}
		return &a, nil
	case TypeMicroPost:
		var a MicroPost
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode micro_post: %w", err)
		}
		return &a, nil
	default:
		return nil, &ValidationError{
			ContentType: t,
			Violations: []FieldViolation{{
				Field:      "content_type",
				Constraint: "enum",
				Message:    fmt.Sprintf("%q is not one of short_video, carousel, micro_post", string(t)),
			}},
		}
	}
}
