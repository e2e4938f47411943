package llm

import "fmt"

// Schema names, as referenced by the prompt templates
const (
	SchemaContentPack     = "content_pack"
	SchemaTitleSuggestion = "title_suggestion"
	SchemaToneAdaptation  = "tone_adaptation"
)

const minTitles = 1

// nonBlank requires at least one non-whitespace character
const nonBlank = `\S`

func text() map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "pattern": nonBlank}
}

func textField(description string) map[string]any {
	field := text()
	field["description"] = description
	return field
}

func object(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// GetContentPackSchema returns the JSON schema for the full content pack.
// Every field is required and must contain non-whitespace text. The
// progress note is stamped by the service, not the model.
func GetContentPackSchema() map[string]any {
	return object(map[string]any{
		"episodeSummary": textField("A clear, engaging and structured summary of the episode"),
		"showNotes":      textField("Show notes with summary, key topics, timestamps, guest intro and resources"),
		"blogArticle":    textField("SEO blog article with headings and sub-headings"),
		"socialMediaContent": object(map[string]any{
			"linkedIn":           textField("LinkedIn post"),
			"twitterThread":      textField("Twitter/X thread"),
			"instagramCaption":   textField("Instagram caption"),
			"youtubeDescription": textField("YouTube description"),
		}, "linkedIn", "twitterThread", "instagramCaption", "youtubeDescription"),
		"newsletterEmail":     textField("Email newsletter draft with subject line, intro, highlights and CTA"),
		"titlesAndHooks":      textField("Catchy title options and platform specific hooks"),
		"timestampHighlights": textField("Notable sections with timestamps"),
		"keyQuotes":           textField("Punchlines and speaker attributed quotes"),
		"ctaSuggestions":      textField("Audience growth CTA suggestions"),
		"transcript":          textField("Full podcast transcript"),
	},
		"episodeSummary", "showNotes", "blogArticle", "socialMediaContent",
		"newsletterEmail", "titlesAndHooks", "timestampHighlights",
		"keyQuotes", "ctaSuggestions", "transcript",
	)
}

// GetTitleSuggestionSchema returns the JSON schema for titles and per-platform hooks
func GetTitleSuggestionSchema() map[string]any {
	return object(map[string]any{
		"titles": map[string]any{
			"type":        "array",
			"minItems":    minTitles,
			"items":       text(),
			"description": "Catchy title options",
		},
		"hooks": object(map[string]any{
			"linkedIn":  textField("LinkedIn hook"),
			"twitter":   textField("Twitter/X hook"),
			"instagram": textField("Instagram hook"),
			"youtube":   textField("YouTube hook"),
		}, "linkedIn", "twitter", "instagram", "youtube"),
	}, "titles", "hooks")
}

// GetToneAdaptationSchema returns the JSON schema for rewritten assets
func GetToneAdaptationSchema() map[string]any {
	return object(map[string]any{
		"adaptedEpisodeSummary":       textField("Episode summary in the requested tone"),
		"adaptedShowNotes":            textField("Show notes in the requested tone"),
		"adaptedBlogArticle":          textField("Blog article in the requested tone"),
		"adaptedSocialMediaContent":   textField("Social media content in the requested tone"),
		"adaptedEmailNewsletterDraft": textField("Email newsletter draft in the requested tone"),
		"adaptedTitlesAndHooks":       textField("Titles and hooks in the requested tone"),
	},
		"adaptedEpisodeSummary", "adaptedShowNotes", "adaptedBlogArticle",
		"adaptedSocialMediaContent", "adaptedEmailNewsletterDraft", "adaptedTitlesAndHooks",
	)
}

// OutputSchemaFor resolves a schema name to the structured output definition
func OutputSchemaFor(name string) (*OutputSchema, error) {
	switch name {
	case SchemaContentPack:
		return &OutputSchema{Name: name, Description: "Podcast content pack", Schema: GetContentPackSchema()}, nil
	case SchemaTitleSuggestion:
		return &OutputSchema{Name: name, Description: "Episode titles and platform hooks", Schema: GetTitleSuggestionSchema()}, nil
	case SchemaToneAdaptation:
		return &OutputSchema{Name: name, Description: "Assets adapted to a new tone", Schema: GetToneAdaptationSchema()}, nil
	default:
		return nil, fmt.Errorf("unknown output schema %q", name)
	}
}
