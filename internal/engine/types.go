package engine

// SourceKind classifies where a unit of input text came from.
type SourceKind string

const (
	KindVideo    SourceKind = "video"
	KindDocument SourceKind = "document"
	KindURL      SourceKind = "url"
	KindRawText  SourceKind = "raw_text"
)

// SourceRef is a classified but not yet resolved input reference.
// Produced by the normalizer; resolution (transcript fetch, document
// parse, URL extraction) happens in the orchestrator.
type SourceRef struct {
	ID   string     `json:"id"`
	Kind SourceKind `json:"kind"`
	Ref  string     `json:"ref"`
}

// SourceText is one unit of input text ready for idea generation.
// Immutable once produced.
type SourceText struct {
	ID    string     `json:"id"`
	Kind  SourceKind `json:"kind"`
	Text  string     `json:"text"`
	Title string     `json:"title,omitempty"`
}

// TranscriptResult carries a transcript plus the provenance of how it
// was chosen. Notes record every fallback transition; tests assert on
// them, so they are part of the contract, not log decoration.
type TranscriptResult struct {
	Text               string   `json:"text"`
	LanguageCode       string   `json:"language_code"`
	LanguageName       string   `json:"language_name"`
	IsMachineGenerated bool     `json:"is_machine_generated"`
	IsTranslated       bool     `json:"is_translated"`
	SourceLanguage     string   `json:"source_language,omitempty"`
	Confidence         float64  `json:"confidence"`
	Notes              []string `json:"processing_notes,omitempty"`
}

// ContentIdea is one repurposing suggestion for a source.
type ContentIdea struct {
	SuggestedType    ContentType    `json:"suggested_content_type"`
	SuggestedTitle   string         `json:"suggested_title"`
	InspiringSnippet string         `json:"relevant_transcript_snippet"`
	TypeHints        map[string]any `json:"type_specific_suggestions,omitempty"`
}

// FailedIdea records an idea that never produced a valid artifact.
type FailedIdea struct {
	Title  string      `json:"title"`
	Type   ContentType `json:"type"`
	Reason string      `json:"reason"`
}

// SourceOutcome is the per-source result of a batch run. A skipped
// source keeps its reason; a source that yielded zero artifacts after
// attempting every idea is still reported here, never dropped.
type SourceOutcome struct {
	Source    SourceRef    `json:"source"`
	Skipped   bool         `json:"skipped,omitempty"`
	Reason    string       `json:"skip_reason,omitempty"`
	Title     string       `json:"title,omitempty"`
	Ideas     int          `json:"ideas"`
	Artifacts []Artifact   `json:"artifacts"`
	Failed    []FailedIdea `json:"failed_ideas,omitempty"`
}

// ProgressEvent is one step of a streaming run. The terminal complete
// event carries the final outcomes; consumers cancel by returning an
// error from their callback.
type ProgressEvent struct {
	Stage    string          `json:"stage"`
	Message  string          `json:"message"`
	Percent  int             `json:"percent_complete"`
	Outcomes []SourceOutcome `json:"outcomes,omitempty"`
}

// Streaming stage names, in emission order.
const (
	StageStarted          = "started"
	StageFetchingInfo     = "fetching_info"
	StageTranscribing     = "transcribing"
	StageTranscriptReady  = "transcript_ready"
	StageGeneratingIdeas  = "generating_ideas"
	StageIdeasGenerated   = "ideas_generated"
	StageContentGenerated = "content_generated"
	StageComplete         = "complete"
	StageError            = "error"
)
