package engine

import (
	"fmt"
	"unicode/utf8"
)

// Validate checks an artifact against the active limits. All-or-nothing:
// any violation fails the whole artifact, and every violation found is
// reported so the repair prompt can quote the complete list.
func Validate(a Artifact, limits FieldLimits) *ValidationError {
	var violations []FieldViolation

	switch v := a.(type) {
	case *ShortVideo:
		violations = validateShortVideo(v, limits)
	case *Carousel:
		violations = validateCarousel(v, limits)
	case *MicroPost:
		violations = validateMicroPost(v, limits)
	default:
		violations = []FieldViolation{{
			Field:      "content_type",
			Constraint: "enum",
			Message:    "unknown artifact variant",
		}}
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{ContentType: a.Type(), Violations: violations}
}

func validateShortVideo(a *ShortVideo, limits FieldLimits) []FieldViolation {
	var vs []FieldViolation
	vs = appendRequired(vs, "title", a.VideoTitle)
	vs = appendRequired(vs, "hook", a.Hook)
	vs = appendRequired(vs, "script_body", a.ScriptBody)
	vs = appendMaxLen(vs, "title", a.VideoTitle, limits.ShortVideoTitleMax)
	vs = appendMaxLen(vs, "caption", a.Caption, limits.ShortVideoCaptionMax)
	vs = appendMaxLen(vs, "hook", a.Hook, limits.ShortVideoHookMax)
	vs = appendMaxLen(vs, "script_body", a.ScriptBody, limits.ShortVideoScriptMax)
	return vs
}

func validateCarousel(a *Carousel, limits FieldLimits) []FieldViolation {
	var vs []FieldViolation
	vs = appendRequired(vs, "title", a.CarouselTitle)
	vs = appendMaxLen(vs, "title", a.CarouselTitle, limits.CarouselTitleMax)
	vs = appendMaxLen(vs, "caption", a.Caption, limits.CarouselCaptionMax)

	if n := len(a.Slides); n < limits.CarouselMinSlides {
		vs = append(vs, FieldViolation{
			Field:      "slides",
			Constraint: "min_items",
			Message:    fmt.Sprintf("has %d slides, needs at least %d", n, limits.CarouselMinSlides),
		})
	} else if n > limits.CarouselMaxSlides {
		vs = append(vs, FieldViolation{
			Field:      "slides",
			Constraint: "max_items",
			Message:    fmt.Sprintf("has %d slides, allows at most %d", n, limits.CarouselMaxSlides),
		})
	}

	for i, s := range a.Slides {
		path := fmt.Sprintf("slides.%d", i)
		vs = appendRequired(vs, path+".step_heading", s.StepHeading)
		vs = appendMaxLen(vs, path+".step_heading", s.StepHeading, limits.CarouselSlideHeadingMax)
		vs = appendRequired(vs, path+".text", s.Text)
		vs = appendMaxLen(vs, path+".text", s.Text, limits.CarouselSlideTextMax)
	}
	return vs
}

func validateMicroPost(a *MicroPost, limits FieldLimits) []FieldViolation {
	var vs []FieldViolation
	vs = appendRequired(vs, "title", a.PostTitle)
	vs = appendRequired(vs, "body_text", a.BodyText)
	vs = appendMaxLen(vs, "title", a.PostTitle, limits.MicroPostTitleMax)
	vs = appendMaxLen(vs, "body_text", a.BodyText, limits.MicroPostTextMax)
	for i, item := range a.ThreadContinuation {
		vs = appendMaxLen(vs, fmt.Sprintf("thread_continuation.%d", i), item, limits.MicroPostThreadItemMax)
	}
	return vs
}

func appendRequired(vs []FieldViolation, field, value string) []FieldViolation {
	if value == "" {
		vs = append(vs, FieldViolation{
			Field:      field,
			Constraint: "required",
			Message:    "field is required and must not be empty",
		})
	}
	return vs
}

// appendMaxLen enforces a character (rune) ceiling, matching how the
// limits are phrased in prompts. max <= 0 means unbounded.
func appendMaxLen(vs []FieldViolation, field, value string, max int) []FieldViolation {
	if max <= 0 {
		return vs
	}
	if n := utf8.RuneCountInString(value); n > max {
		vs = append(vs, FieldViolation{
			Field:      field,
			Constraint: "max_length",
			Message:    fmt.Sprintf("is %d characters, must be %d or fewer", n, max),
		})
	}
	return vs
}
