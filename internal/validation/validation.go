// Package validation checks form and API input before any model call is made.
// Every function fails closed and reports only the first violation, in field order.
package validation

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/go-playground/validator/v10"
)

// Form field names
const (
	FieldPodcastSource  = "podcastSource"
	FieldToneStyle      = "toneStyle"
	FieldTargetAudience = "targetAudience"
	FieldPlatforms      = "platforms"

	// MinSourceLength is the shortest podcast source accepted, in characters
	MinSourceLength = 10
)

const (
	msgSourceTooShort  = "Podcast source is too short. Please provide a valid URL or a longer transcript."
	msgInvalidTone     = "Please select a valid tone style."
	msgNoPlatform      = "Please select at least one platform."
	msgRequiredField   = "This field is required."
	msgInvalidFormData = "Invalid form data. Please check your inputs."
)

// ValidationError reports the first invalid field of a submission
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a *ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names so messages line up with the form
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("tone", func(fl validator.FieldLevel) bool {
		return models.ToneStyle(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}

	return v
}

// ParseGenerationForm builds a validated GenerationRequest from raw form values
func ParseGenerationForm(values url.Values) (*models.GenerationRequest, error) {
	req := &models.GenerationRequest{
		PodcastSource:  values.Get(FieldPodcastSource),
		ToneStyle:      models.ToneStyle(values.Get(FieldToneStyle)),
		TargetAudience: values.Get(FieldTargetAudience),
		Platforms:      values[FieldPlatforms],
	}
	if err := ValidateGenerationRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ValidateGenerationRequest normalises and validates a generation request in place
func ValidateGenerationRequest(req *models.GenerationRequest) error {
	if req == nil {
		return &ValidationError{Message: msgInvalidFormData}
	}

	req.PodcastSource = strings.TrimSpace(req.PodcastSource)
	req.ToneStyle = models.ToneStyle(strings.TrimSpace(string(req.ToneStyle)))
	req.TargetAudience = normaliseAudience(req.TargetAudience)
	req.Platforms = compact(req.Platforms)

	return firstViolation(validate.Struct(req))
}

// ValidateTitleRequest validates the input of the title suggestion flow
func ValidateTitleRequest(req *models.TitleSuggestionRequest) error {
	if req == nil {
		return &ValidationError{Message: msgInvalidFormData}
	}
	req.EpisodeSummary = strings.TrimSpace(req.EpisodeSummary)
	req.ToneStyle = models.ToneStyle(strings.TrimSpace(string(req.ToneStyle)))
	req.TargetAudience = normaliseAudience(req.TargetAudience)

	return firstViolation(validate.Struct(req))
}

// ValidateToneAdaptationRequest validates the input of the tone adaptation flow
func ValidateToneAdaptationRequest(req *models.ToneAdaptationRequest) error {
	if req == nil {
		return &ValidationError{Message: msgInvalidFormData}
	}
	req.ToneStyle = models.ToneStyle(strings.TrimSpace(string(req.ToneStyle)))
	req.TargetAudience = normaliseAudience(req.TargetAudience)

	return firstViolation(validate.Struct(req))
}

// firstViolation maps validator output to a single user-facing message
func firstViolation(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: msgInvalidFormData}
	}

	fe := fieldErrs[0]
	field := topLevelField(fe.Field())
	return &ValidationError{Field: field, Message: messageFor(field, fe.Tag())}
}

func messageFor(field, tag string) string {
	switch field {
	case FieldPodcastSource:
		return msgSourceTooShort
	case FieldToneStyle:
		return msgInvalidTone
	case FieldPlatforms:
		return msgNoPlatform
	}
	if tag == "required" {
		return field + ": " + msgRequiredField
	}
	return msgInvalidFormData
}

// topLevelField strips slice indexes such as "platforms[0]"
func topLevelField(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func normaliseAudience(audience string) string {
	audience = strings.TrimSpace(audience)
	if audience == "" {
		return models.DefaultAudience
	}
	return audience
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// InvalidFormData returns the generic error for a submission that could not be decoded
func InvalidFormData() error {
	return &ValidationError{Message: msgInvalidFormData}
}
