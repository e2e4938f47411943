package templates

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/a-h/templ"
)

// Source input modes of the form
const (
	SourceModeURL  = "url"
	SourceModeText = "text"
)

// Toast kinds
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// PageData is everything the home page needs
type PageData struct {
	Form   FormState
	Result *models.ActionResult[models.ContentPack]
}

// FormState holds the values the form is rendered with
type FormState struct {
	SourceMode     string
	PodcastSource  string
	ToneStyle      models.ToneStyle
	TargetAudience string
	Platforms      []string
}

// DefaultFormState is the form as first shown: URL mode, default tone and
// audience, every platform selected
func DefaultFormState() FormState {
	platforms := make([]string, 0, len(models.Platforms))
	for _, p := range models.Platforms {
		platforms = append(platforms, p.Label)
	}
	return FormState{
		SourceMode:     SourceModeURL,
		ToneStyle:      models.DefaultTone,
		TargetAudience: models.DefaultAudience,
		Platforms:      platforms,
	}
}

func (f FormState) hasPlatform(label string) bool {
	for _, p := range f.Platforms {
		if p == label {
			return true
		}
	}
	return false
}

// mode is the active source input. Unknown modes show the URL input.
func (f FormState) mode() string {
	if f.SourceMode == SourceModeText {
		return SourceModeText
	}
	return SourceModeURL
}

// sourceFor returns the submitted source when mode is the active input
func (f FormState) sourceFor(mode string) string {
	if f.mode() != mode {
		return ""
	}
	return f.PodcastSource
}

type contentTab struct {
	id      string
	label   string
	title   string
	content string
}

type socialTab struct {
	id      string
	label   string
	content string
}

// leadingTabs come before Social in the viewer
func leadingTabs(pack *models.ContentPack) []contentTab {
	return []contentTab{
		{id: "summary", label: "Summary", title: "Episode Summary", content: pack.EpisodeSummary},
		{id: "showNotes", label: "Show Notes", title: "Show Notes", content: pack.ShowNotes},
		{id: "blog", label: "Blog Article", title: "SEO Blog Article", content: pack.BlogArticle},
	}
}

func trailingTabs(pack *models.ContentPack) []contentTab {
	return []contentTab{
		{id: "newsletter", label: "Newsletter", title: "Email Newsletter", content: pack.NewsletterEmail},
		{id: "titles", label: "Titles & Hooks", title: "Titles & Hooks", content: pack.TitlesAndHooks},
		{id: "timestamps", label: "Timestamps", title: "Timestamp Highlights", content: pack.TimestampHighlights},
		{id: "quotes", label: "Key Quotes", title: "Key Quotes", content: pack.KeyQuotes},
		{id: "ctas", label: "CTA Suggestions", title: "CTA Suggestions", content: pack.CTASuggestions},
		{id: "transcript", label: "Transcript", title: "Full Transcript", content: pack.Transcript},
	}
}

// socialTabs lists a sub-tab only for platforms with content
func socialTabs(social models.SocialMediaContent) []socialTab {
	candidates := []socialTab{
		{id: "linkedIn", label: "LinkedIn", content: social.LinkedIn},
		{id: "twitter", label: "Twitter/X", content: social.TwitterThread},
		{id: "instagram", label: "Instagram", content: social.InstagramCaption},
		{id: "youtube", label: "YouTube", content: social.YoutubeDescription},
	}
	tabs := make([]socialTab, 0, len(candidates))
	for _, t := range candidates {
		if strings.TrimSpace(t.content) != "" {
			tabs = append(tabs, t)
		}
	}
	return tabs
}

func ariaSelected(active bool) string {
	if active {
		return "true"
	}
	return "false"
}

// SocialCopyPayload is the text the Social copy control puts on the clipboard:
// the record as 2-space indented JSON, matching JSON.stringify(v, null, 2)
func SocialCopyPayload(social models.SocialMediaContent) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(social); err != nil {
		return "", err
	}
	return unescapeLineSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always writes back into the literal runes. Escaped backslashes are skipped
// so a literal \\u2028 in the text survives.
func unescapeLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		switch {
		case strings.HasPrefix(s[i:], `\u2028`):
			b.WriteRune('\u2028')
			i += len(`\u2028`) - 1
		case strings.HasPrefix(s[i:], `\u2029`):
			b.WriteRune('\u2029')
			i += len(`\u2029`) - 1
		default:
			b.WriteByte(s[i])
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		}
	}
	return b.String()
}

func resultToast(result models.ActionResult[models.ContentPack]) templ.Component {
	if !result.OK() {
		return Toast(ToastError, "Generation Error", result.ErrorMessage())
	}
	message := "Your content pack has been generated."
	if result.Data.Progress != "" {
		message = result.Data.Progress
	}
	return Toast(ToastSuccess, "Success!", message)
}
