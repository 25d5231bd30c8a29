package engine

import (
	"fmt"
	"strings"
)

// LLM prompt templates — data only, no logic beyond Sprintf assembly.

// StylePreset is a named content style bundled with the engine.
type StylePreset struct {
	Name                   string `json:"name"`
	Description            string `json:"description"`
	TargetAudience         string `json:"target_audience"`
	CallToAction           string `json:"call_to_action"`
	ContentGoal            string `json:"content_goal"`
	Language               string `json:"language"`
	Tone                   string `json:"tone"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

// CustomStyle is a caller-supplied style that overrides any preset.
type CustomStyle struct {
	TargetAudience         string `json:"target_audience"`
	CallToAction           string `json:"call_to_action"`
	ContentGoal            string `json:"content_goal"`
	Language               string `json:"language"`
	Tone                   string `json:"tone"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

var stylePresets = map[string]StylePreset{
	"ecommerce_entrepreneur": {
		Name:           "E-commerce Entrepreneur",
		Description:    "For e-commerce entrepreneurs and Shopify store owners",
		TargetAudience: "ecom entrepreneurs, Shopify store owners, and DTC brands looking to launch, improve design, or scale with ads",
		CallToAction:   "DM us to launch or fix your store, check our portfolio, and follow for ROI-boosting tips",
		ContentGoal:    "education, lead_generation, brand_awareness",
		Language:       "Roman Urdu",
		Tone:           "Educational and engaging",
		AdditionalInstructions: "CRITICAL LANGUAGE RULE: The output language MUST be Roman Urdu. " +
			"Roman Urdu means writing Urdu words using the English alphabet. DO NOT use the native Urdu script.",
	},
	"professional_business": {
		Name:                   "Professional Business",
		Description:            "Professional business content for corporate audiences",
		TargetAudience:         "business professionals, entrepreneurs, and corporate decision makers",
		CallToAction:           "Contact us for consultation, follow for business insights",
		ContentGoal:            "thought_leadership, brand_awareness, lead_generation",
		Language:               "English",
		Tone:                   "Professional and authoritative",
		AdditionalInstructions: "Use industry terminology and maintain a professional tone throughout",
	},
	"social_media_casual": {
		Name:                   "Social Media Casual",
		Description:            "Casual, engaging content for social media audiences",
		TargetAudience:         "general social media users, millennials, and Gen Z",
		CallToAction:           "Like, share, and follow for more content",
		ContentGoal:            "entertainment, engagement, brand_awareness",
		Language:               "English",
		Tone:                   "Casual and fun",
		AdditionalInstructions: "Use emojis, trendy language, and keep it conversational",
	},
	"educational_content": {
		Name:                   "Educational Content",
		Description:            "Educational and informative content for learners",
		TargetAudience:         "students, professionals seeking knowledge, lifelong learners",
		CallToAction:           "Subscribe for more educational content, share with others",
		ContentGoal:            "education, knowledge_sharing, community_building",
		Language:               "English",
		Tone:                   "Informative and encouraging",
		AdditionalInstructions: "Break down complex topics into digestible pieces, use examples and analogies",
	},
	"fitness_wellness": {
		Name:                   "Fitness & Wellness",
		Description:            "Health, fitness, and wellness focused content",
		TargetAudience:         "fitness enthusiasts, health-conscious individuals, wellness seekers",
		CallToAction:           "Follow for daily tips, share your progress, join our community",
		ContentGoal:            "motivation, education, community_building",
		Language:               "English",
		Tone:                   "Motivational and supportive",
		AdditionalInstructions: "Use encouraging language, focus on positive health outcomes, include actionable tips",
	},
}

// StylePresets returns all bundled presets keyed by preset id.
func StylePresets() map[string]StylePreset { return stylePresets }

// LookupStylePreset returns the preset for id, or false if unknown.
func LookupStylePreset(id string) (StylePreset, bool) {
	p, ok := stylePresets[id]
	return p, ok
}

const defaultStyleText = `"Target Audience: general audience interested in the source material"
"Call To Action: engage with our content and follow for more"
"Content Goal: education, engagement"
"Language: English"
"Tone: Professional and engaging"`

// RenderStyle produces the style block injected into system prompts.
// Precedence: custom > preset > neutral default. An unknown preset id
// falls back to the default rather than failing the request.
func RenderStyle(presetID string, custom *CustomStyle) string {
	if custom != nil {
		return renderStyleLines(custom.TargetAudience, custom.CallToAction,
			custom.ContentGoal, custom.Language, custom.Tone, custom.AdditionalInstructions)
	}
	if p, ok := stylePresets[presetID]; ok {
		return renderStyleLines(p.TargetAudience, p.CallToAction,
			p.ContentGoal, p.Language, p.Tone, p.AdditionalInstructions)
	}
	return defaultStyleText
}

func renderStyleLines(audience, cta, goal, language, tone, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q\n", "Target Audience: "+audience)
	fmt.Fprintf(&b, "%q\n", "Call To Action: "+cta)
	fmt.Fprintf(&b, "%q\n", "Content Goal: "+goal)
	fmt.Fprintf(&b, "%q\n", "Language: "+language)
	fmt.Fprintf(&b, "%q", "Tone: "+tone)
	if extra != "" {
		fmt.Fprintf(&b, "\n%q", "Additional Instructions: "+extra)
	}
	return b.String()
}

// ideasSystemPromptTmpl — idea extraction pass.
// Args: min ideas, max ideas, min ideas, max ideas, style block.
const ideasSystemPromptTmpl = `You are an expert AI assistant specializing in analyzing source material to identify valuable, repurposable content ideas.

**Primary Task**:
Carefully analyze the provided text and identify %d to %d distinct content ideas that capture the most important, interesting, or actionable insights from it.

**Focus on the Source Content**:
- Extract key insights, lessons, tips, or stories from the text
- Identify content that would provide real value to readers
- Look for unique angles, surprising facts, or practical advice
- Consider which parts are most shareable or memorable
- Each idea should highlight something specific and valuable from the source

**Output Format**:
Respond with a single JSON object only (no markdown, no code fences). The object must have one key named "ideas" containing a list of %d to %d content ideas.
Each idea object MUST have this structure:
{
  "suggested_content_type": "<'short_video'|'carousel'|'micro_post'>",
  "suggested_title": "<string, a catchy title that captures the core insight>",
  "relevant_transcript_snippet": "<string, a direct quote from the source text that inspired this idea>",
  "type_specific_suggestions": {}
}

**Style Consideration** (as a secondary guide):
When presenting these ideas, consider this target style:
%s

Note: The source's actual content and key messages should drive your idea selection. Style is a presentation guide, not a content filter.`

// ideasUserPromptTmpl — args: source text.
const ideasUserPromptTmpl = `Source text:
%s

Please analyze and generate ideas based on the system prompt instructions.`

func buildIdeasSystemPrompt(c Config, style string) string {
	return fmt.Sprintf(ideasSystemPromptTmpl, c.MinIdeas, c.MaxIdeas, c.MinIdeas, c.MaxIdeas, style)
}

// contentSystemPromptTmpl — generation of one artifact from one idea.
// All three schemas are always present so the model sees the full
// closed set; limits are baked in from the active FieldLimits.
const contentSystemPromptTmpl = `You are an expert AI content creator. Your task is to take a specific content idea and generate the full content piece.
You MUST follow the JSON schema for the requested content_type with absolute precision. All required fields MUST be included.
Respond with valid JSON only (no markdown, no code fences).

**Content Type Schemas:**

If content_type is "short_video", the JSON MUST look like this:
{
  "content_type": "short_video",
  "title": "<string, the title for the video, max %d chars>",
  "caption": "<string, a short, engaging caption, max %d chars>",
  "hook": "<string, a strong, attention-grabbing opening line, max %d chars, required>",
  "script_body": "<string, the main script for the video, max %d chars, required>",
  "visual_suggestions": "<string, optional suggestions for visuals>",
  "hashtags": ["<list of relevant string hashtags>"]
}

If content_type is "carousel", the JSON MUST look like this:
{
  "content_type": "carousel",
  "title": "<string, the title for the carousel, max %d chars>",
  "caption": "<string, a short, engaging caption, max %d chars>",
  "slides": [
    {
      "slide_number": 1,
      "step_number": 1,
      "step_heading": "<string, SHORT heading for this step, max %d chars - e.g., 'Step 1: Setup'>",
      "text": "<string, DETAILED TEXT CONTENT - this is the primary content field. Write several sentences with specific details, examples, or actionable tips. Max %d chars. Do NOT repeat the heading.>"
    }
  ],
  "hashtags": ["<list of relevant string hashtags>"]
}

If content_type is "micro_post", the JSON MUST look like this:
{
  "content_type": "micro_post",
  "title": "<string, an internal title for the post, max %d chars>",
  "body_text": "<string, the main post content, max %d chars, required>",
  "thread_continuation": ["<list of optional follow-up strings, each max %d chars>"],
  "hashtags": ["<list of relevant string hashtags>"]
}

CONTENT CREATION GUIDELINES:

**Primary Goal**: Extract the most valuable insights from the source text and the content idea and present them in the requested format.

**Content Requirements**:
- For carousel: generate %d-%d slides
- For carousel slides: make the "text" field detailed and valuable; each slide self-contained, with specifics from the source. The step_heading is a short label; the text field carries the real value
- Your output must be valid JSON matching exactly one of the schemas above
- Do NOT include content_id in your response

**Style Adaptation** (apply as a guide, not a constraint):
The content should reflect this style when appropriate:
%s

Balance is key:
- Prioritize accuracy and relevance to the source content
- Keep the source's core message and key insights
- Adapt tone and presentation naturally; the substance drives the content, style enhances it`

func buildContentSystemPrompt(limits FieldLimits, style string) string {
	return fmt.Sprintf(contentSystemPromptTmpl,
		limits.ShortVideoTitleMax, limits.ShortVideoCaptionMax,
		limits.ShortVideoHookMax, limits.ShortVideoScriptMax,
		limits.CarouselTitleMax, limits.CarouselCaptionMax,
		limits.CarouselSlideHeadingMax, limits.CarouselSlideTextMax,
		limits.MicroPostTitleMax, limits.MicroPostTextMax, limits.MicroPostThreadItemMax,
		limits.CarouselMinSlides, limits.CarouselMaxSlides,
		style)
}

// contentUserPromptTmpl — args: idea JSON, source text.
const contentUserPromptTmpl = `Content idea:
%s

Source text:
%s

Generate the complete content piece for the idea's suggested_content_type, following the system prompt schema exactly.`

// repairPromptTmpl — args: newline-joined violation list, content type,
// idea JSON, previous raw model output.
const repairPromptTmpl = `The previously generated content failed validation with these specific errors:

%s

Please regenerate the content for '%s' type, ensuring ALL validation requirements from the schema are met.

Content idea:
%s

Previous content that failed validation:
%s

Fix the specific validation errors and return the complete corrected content piece as JSON.`

func buildRepairPrompt(verr *ValidationError, ideaJSON string, previousRaw string) string {
	lines := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		lines[i] = v.String()
	}
	return fmt.Sprintf(repairPromptTmpl, strings.Join(lines, "\n"),
		string(verr.ContentType), ideaJSON, previousRaw)
}

// editSystemPromptTmpl — args: style block.
const editSystemPromptTmpl = `You are an expert content editor specializing in precise, diff-based editing of social media content.
Your task is to make ONLY the specific changes requested by the user while preserving everything else.

**CRITICAL INSTRUCTIONS:**
1. Make ONLY the changes explicitly requested in the edit prompt
2. Preserve all other content exactly as it was
3. Ensure the edited content still meets all field length limits of the original schema

**STYLE:**
%s

**OUTPUT FORMAT:**
Return the complete edited content piece as JSON, maintaining the exact same structure as the original.
Include ALL fields from the original, changing only what was specifically requested.
Respond with valid JSON only (no markdown, no code fences).`

// editUserPromptTmpl — args: original artifact JSON, edit request,
// content type.
const editUserPromptTmpl = `ORIGINAL CONTENT:
%s

EDIT REQUEST:
%s

Apply the requested changes to the above %s content while:
1. Keeping all unchanged fields exactly the same
2. Ensuring the edited content meets all field length limits
3. Only changing what was specifically requested

Return the complete edited content as JSON.`
