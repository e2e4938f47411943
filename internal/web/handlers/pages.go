package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/Conceptual-Machines/podcast-automate/internal/validation"
	"github.com/Conceptual-Machines/podcast-automate/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	fieldSourceMode = "sourceMode"
)

// sourceInputs are the form's source inputs in document order
var sourceInputs = []string{templates.SourceModeURL, templates.SourceModeText}

// SubmissionHandler turns a raw form post into the result envelope
type SubmissionHandler interface {
	HandleSubmission(ctx context.Context, values url.Values) models.ActionResult[models.ContentPack]
}

type WebHandler struct {
	submissions SubmissionHandler
}

func NewWebHandler(submissions SubmissionHandler) *WebHandler {
	return &WebHandler{submissions: submissions}
}

// Home renders the form with an empty viewer
func (h *WebHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, templates.Page(templates.PageData{
		Form: templates.DefaultFormState(),
	}))
}

// HTMXGenerate runs a submission and returns the viewer fragment with a toast.
// The status is always 200 so HTMX swaps the error toast in as well.
func (h *WebHandler) HTMXGenerate(c *gin.Context) {
	values, ok := h.formValues(c)
	if !ok {
		h.render(c, http.StatusOK, templates.ResultFragment(
			models.Failure[models.ContentPack](validation.InvalidFormData().Error()),
		))
		return
	}

	result := h.submissions.HandleSubmission(c.Request.Context(), values)
	h.render(c, http.StatusOK, templates.ResultFragment(result))
}

// Generate is the non-JavaScript fallback: it renders the whole page with the
// submitted values kept in the form
func (h *WebHandler) Generate(c *gin.Context) {
	values, ok := h.formValues(c)
	if !ok {
		result := models.Failure[models.ContentPack](validation.InvalidFormData().Error())
		h.render(c, http.StatusBadRequest, templates.Page(templates.PageData{
			Form:   templates.DefaultFormState(),
			Result: &result,
		}))
		return
	}

	result := h.submissions.HandleSubmission(c.Request.Context(), values)
	status := http.StatusOK
	if !result.OK() {
		status = http.StatusUnprocessableEntity
	}
	h.render(c, status, templates.Page(templates.PageData{
		Form:   formStateFrom(values),
		Result: &result,
	}))
}

// formValues reads the post body. Without JavaScript both source inputs are
// submitted, so only the first non-empty one is kept and the source mode is
// set to the input it came from.
func (h *WebHandler) formValues(c *gin.Context) (url.Values, bool) {
	if err := c.Request.ParseForm(); err != nil {
		logger.Warn("Failed to parse form", logger.Fields{
			"request_id": c.GetString("request_id"),
			"error":      err.Error(),
		})
		return nil, false
	}

	values := url.Values{}
	for k, v := range c.Request.PostForm {
		values[k] = append([]string(nil), v...)
	}
	sources := values[validation.FieldPodcastSource]
	for i, src := range sources {
		if strings.TrimSpace(src) == "" {
			continue
		}
		values.Set(validation.FieldPodcastSource, src)
		if len(sources) == len(sourceInputs) {
			values.Set(fieldSourceMode, sourceInputs[i])
		}
		break
	}
	return values, true
}

func formStateFrom(values url.Values) templates.FormState {
	state := templates.FormState{
		SourceMode:     values.Get(fieldSourceMode),
		PodcastSource:  values.Get(validation.FieldPodcastSource),
		ToneStyle:      models.ToneStyle(values.Get(validation.FieldToneStyle)),
		TargetAudience: values.Get(validation.FieldTargetAudience),
		Platforms:      values[validation.FieldPlatforms],
	}
	if state.ToneStyle == "" {
		state.ToneStyle = models.DefaultTone
	}
	if state.TargetAudience == "" {
		state.TargetAudience = models.DefaultAudience
	}
	return state
}

func (h *WebHandler) render(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", contentTypeHTML)
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		logger.Error("Failed to render template", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
	}
}
