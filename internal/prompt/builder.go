package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/podcast-automate/internal/models"
)

const platformSeparator = ", "

// AssetInput fills the slots of the asset generation template.
// sourceContext is the text retrieved for a link source and may be empty.
func AssetInput(req *models.GenerationRequest, sourceContext string) Input {
	return Input{
		"PodcastSource":  req.PodcastSource,
		"ToneStyle":      string(req.ToneStyle),
		"TargetAudience": req.TargetAudience,
		"Platforms":      strings.Join(req.Platforms, platformSeparator),
		"SourceContext":  sourceContext,
	}
}

// TitleInput fills the slots of the title suggestion template
func TitleInput(req *models.TitleSuggestionRequest) Input {
	return Input{
		"EpisodeSummary": req.EpisodeSummary,
		"ToneStyle":      string(req.ToneStyle),
		"TargetAudience": req.TargetAudience,
	}
}

// ToneInput fills the slots of the tone adaptation template
func ToneInput(req *models.ToneAdaptationRequest) Input {
	return Input{
		"EpisodeSummary":       req.EpisodeSummary,
		"ShowNotes":            req.ShowNotes,
		"BlogArticle":          req.BlogArticle,
		"SocialMediaContent":   req.SocialMediaContent,
		"EmailNewsletterDraft": req.EmailNewsletterDraft,
		"TitlesAndHooks":       req.TitlesAndHooks,
		"ToneStyle":            string(req.ToneStyle),
		"TargetAudience":       req.TargetAudience,
	}
}
