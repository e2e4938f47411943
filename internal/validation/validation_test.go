package validation

import (
	"net/url"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTranscript = "Host: welcome back to the show, today we talk about shipping software."

func formValues(source, tone, audience string, platforms ...string) url.Values {
	v := url.Values{}
	v.Set(FieldPodcastSource, source)
	v.Set(FieldToneStyle, tone)
	v.Set(FieldTargetAudience, audience)
	for _, p := range platforms {
		v.Add(FieldPlatforms, p)
	}
	return v
}

func TestParseGenerationForm(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantField string
		wantMsg   string
	}{
		{
			name:      "short source",
			values:    formValues("short", "Professional", "General", "LinkedIn"),
			wantField: FieldPodcastSource,
			wantMsg:   msgSourceTooShort,
		},
		{
			name:      "whitespace padded source is trimmed before length check",
			values:    formValues("   abc      ", "Professional", "General", "LinkedIn"),
			wantField: FieldPodcastSource,
			wantMsg:   msgSourceTooShort,
		},
		{
			name:      "unknown tone",
			values:    formValues(validTranscript, "Sarcastic", "General", "LinkedIn"),
			wantField: FieldToneStyle,
			wantMsg:   msgInvalidTone,
		},
		{
			name:      "missing tone",
			values:    formValues(validTranscript, "", "General", "LinkedIn"),
			wantField: FieldToneStyle,
			wantMsg:   msgInvalidTone,
		},
		{
			name:      "no platforms",
			values:    formValues(validTranscript, "Casual", "Students"),
			wantField: FieldPlatforms,
			wantMsg:   msgNoPlatform,
		},
		{
			name:      "only blank platforms",
			values:    formValues(validTranscript, "Casual", "Students", " ", ""),
			wantField: FieldPlatforms,
			wantMsg:   msgNoPlatform,
		},
		{
			name:      "first violation wins",
			values:    formValues("short", "Sarcastic", "General"),
			wantField: FieldPodcastSource,
			wantMsg:   msgSourceTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseGenerationForm(tt.values)
			require.Error(t, err)
			assert.Nil(t, req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantMsg, verr.Error())
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestParseGenerationForm_Valid(t *testing.T) {
	req, err := ParseGenerationForm(formValues("  "+validTranscript+"  ", "Casual", "Students", "LinkedIn", "Twitter"))
	require.NoError(t, err)

	assert.Equal(t, validTranscript, req.PodcastSource)
	assert.Equal(t, models.ToneCasual, req.ToneStyle)
	assert.Equal(t, "Students", req.TargetAudience)
	assert.Equal(t, []string{"LinkedIn", "Twitter"}, req.Platforms)
}

func TestParseGenerationForm_DefaultsAudience(t *testing.T) {
	req, err := ParseGenerationForm(formValues("https://example.com/feed.xml", "Formal", "", "YouTube"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAudience, req.TargetAudience)
}

func TestParseGenerationForm_MinLengthCountsCharacters(t *testing.T) {
	// ten multi-byte runes satisfy the minimum
	req, err := ParseGenerationForm(formValues(strings.Repeat("é", MinSourceLength), "Formal", "Tech", "LinkedIn"))
	require.NoError(t, err)
	assert.Len(t, []rune(req.PodcastSource), MinSourceLength)
}

func TestValidateGenerationRequest_Nil(t *testing.T) {
	err := ValidateGenerationRequest(nil)
	require.Error(t, err)
	assert.Equal(t, msgInvalidFormData, err.Error())
}

func TestValidateTitleRequest(t *testing.T) {
	err := ValidateTitleRequest(&models.TitleSuggestionRequest{
		EpisodeSummary: "   ",
		ToneStyle:      models.ToneCasual,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "episodeSummary", verr.Field)

	req := &models.TitleSuggestionRequest{EpisodeSummary: "A talk about habits", ToneStyle: models.ToneMotivational}
	require.NoError(t, ValidateTitleRequest(req))
	assert.Equal(t, models.DefaultAudience, req.TargetAudience)
}

func TestValidateToneAdaptationRequest(t *testing.T) {
	req := &models.ToneAdaptationRequest{
		EpisodeSummary:       "summary",
		ShowNotes:            "notes",
		BlogArticle:          "blog",
		SocialMediaContent:   "social",
		EmailNewsletterDraft: "newsletter",
		TitlesAndHooks:       "titles",
		ToneStyle:            models.ToneStorytelling,
		TargetAudience:       "Founders",
	}
	require.NoError(t, ValidateToneAdaptationRequest(req))

	req.ShowNotes = ""
	err := ValidateToneAdaptationRequest(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "showNotes", verr.Field)

	req.ShowNotes = "notes"
	req.ToneStyle = "Loud"
	err = ValidateToneAdaptationRequest(req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldToneStyle, verr.Field)
}
