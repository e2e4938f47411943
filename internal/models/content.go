package models

// ToneStyle is the writing style requested for generated assets
type ToneStyle string

const (
	ToneFormal       ToneStyle = "Formal"
	ToneCasual       ToneStyle = "Casual"
	ToneMotivational ToneStyle = "Motivational"
	ToneStorytelling ToneStyle = "Storytelling"
	ToneProfessional ToneStyle = "Professional"

	DefaultTone     = ToneProfessional
	DefaultAudience = "General"
)

// ToneStyles lists the accepted tones in the order the form presents them
var ToneStyles = []ToneStyle{
	ToneProfessional,
	ToneCasual,
	ToneFormal,
	ToneMotivational,
	ToneStorytelling,
}

// Audiences are the preset target audiences offered by the form.
// The API accepts any non-empty audience text.
var Audiences = []string{DefaultAudience, "Founders", "Students", "Tech", "Business"}

// Platform is a social platform selectable on the form
type Platform struct {
	ID    string
	Label string
}

// Platforms offered by the form; the label is the submitted value
var Platforms = []Platform{
	{ID: "linkedin", Label: "LinkedIn"},
	{ID: "twitter", Label: "Twitter/X"},
	{ID: "instagram", Label: "Instagram"},
	{ID: "youtube", Label: "YouTube"},
}

// Valid reports whether t is one of the fixed tone styles
func (t ToneStyle) Valid() bool {
	for _, s := range ToneStyles {
		if s == t {
			return true
		}
	}
	return false
}

// GenerationRequest is a validated form submission for the asset generation flow
type GenerationRequest struct {
	PodcastSource  string    `json:"podcastSource" validate:"min=10"`
	ToneStyle      ToneStyle `json:"toneStyle" validate:"tone"`
	TargetAudience string    `json:"targetAudience"`
	Platforms      []string  `json:"platforms" validate:"min=1,dive,required"`
}

// SocialMediaContent holds the per-platform posts of a content pack
type SocialMediaContent struct {
	LinkedIn           string `json:"linkedIn"`
	TwitterThread      string `json:"twitterThread"`
	InstagramCaption   string `json:"instagramCaption"`
	YoutubeDescription string `json:"youtubeDescription"`
}

// ContentPack is the full set of generated marketing assets for one podcast source
type ContentPack struct {
	EpisodeSummary      string             `json:"episodeSummary"`
	ShowNotes           string             `json:"showNotes"`
	BlogArticle         string             `json:"blogArticle"`
	SocialMediaContent  SocialMediaContent `json:"socialMediaContent"`
	NewsletterEmail     string             `json:"newsletterEmail"`
	TitlesAndHooks      string             `json:"titlesAndHooks"`
	TimestampHighlights string             `json:"timestampHighlights"`
	KeyQuotes           string             `json:"keyQuotes"`
	CTASuggestions      string             `json:"ctaSuggestions"`
	Transcript          string             `json:"transcript"`
	// Progress is a fixed note set once generation succeeds
	Progress string `json:"progress,omitempty"`
}

// TitleSuggestionRequest asks for titles and hooks for an existing episode summary
type TitleSuggestionRequest struct {
	EpisodeSummary string    `json:"episodeSummary" validate:"required"`
	ToneStyle      ToneStyle `json:"toneStyle" validate:"tone"`
	TargetAudience string    `json:"targetAudience"`
}

// PlatformHooks are short per-platform openers
type PlatformHooks struct {
	LinkedIn  string `json:"linkedIn"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	YouTube   string `json:"youtube"`
}

// TitleSuggestion is the result of the title suggestion flow
type TitleSuggestion struct {
	Titles []string      `json:"titles"`
	Hooks  PlatformHooks `json:"hooks"`
}

// ToneAdaptationRequest carries existing assets to be rewritten under a new tone and audience
type ToneAdaptationRequest struct {
	EpisodeSummary       string    `json:"episodeSummary" validate:"required"`
	ShowNotes            string    `json:"showNotes" validate:"required"`
	BlogArticle          string    `json:"blogArticle" validate:"required"`
	SocialMediaContent   string    `json:"socialMediaContent" validate:"required"`
	EmailNewsletterDraft string    `json:"emailNewsletterDraft" validate:"required"`
	TitlesAndHooks       string    `json:"titlesAndHooks" validate:"required"`
	ToneStyle            ToneStyle `json:"toneStyle" validate:"tone"`
	TargetAudience       string    `json:"targetAudience"`
}

// ToneAdaptationResult mirrors the text assets of a pack after a tone rewrite
type ToneAdaptationResult struct {
	AdaptedEpisodeSummary       string `json:"adaptedEpisodeSummary"`
	AdaptedShowNotes            string `json:"adaptedShowNotes"`
	AdaptedBlogArticle          string `json:"adaptedBlogArticle"`
	AdaptedSocialMediaContent   string `json:"adaptedSocialMediaContent"`
	AdaptedEmailNewsletterDraft string `json:"adaptedEmailNewsletterDraft"`
	AdaptedTitlesAndHooks       string `json:"adaptedTitlesAndHooks"`
}

// ActionResult is the discriminated result returned to the form and the JSON API.
// Exactly one of Data and Error is set.
type ActionResult[T any] struct {
	Data  *T      `json:"data"`
	Error *string `json:"error"`
}

// Success wraps data in a successful result
func Success[T any](data *T) ActionResult[T] {
	return ActionResult[T]{Data: data}
}

// Failure wraps a user-facing error message
func Failure[T any](msg string) ActionResult[T] {
	return ActionResult[T]{Error: &msg}
}

// OK reports whether the result carries data
func (r ActionResult[T]) OK() bool {
	return r.Error == nil && r.Data != nil
}

// ErrorMessage returns the error text or an empty string
func (r ActionResult[T]) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}
