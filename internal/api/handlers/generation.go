package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/Conceptual-Machines/podcast-automate/internal/services"
	"github.com/Conceptual-Machines/podcast-automate/internal/validation"
	"github.com/gin-gonic/gin"
)

// ContentService is the part of services.ContentService the handlers need
type ContentService interface {
	GenerateAssets(ctx context.Context, req *models.GenerationRequest) (*models.ContentPack, error)
	SuggestTitles(ctx context.Context, req *models.TitleSuggestionRequest) (*models.TitleSuggestion, error)
	AdaptTone(ctx context.Context, req *models.ToneAdaptationRequest) (*models.ToneAdaptationResult, error)
}

type GenerationHandler struct {
	service ContentService
}

func NewGenerationHandler(service ContentService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// Generate accepts either a form post or a JSON body and returns the
// content pack envelope
func (h *GenerationHandler) Generate(c *gin.Context) {
	req, err := bindGenerationRequest(c)
	if err != nil {
		respond[models.ContentPack](c, nil, err)
		return
	}

	pack, err := h.service.GenerateAssets(c.Request.Context(), req)
	respond(c, pack, err)
}

// SuggestTitles returns title options and platform hooks for an episode summary
func (h *GenerationHandler) SuggestTitles(c *gin.Context) {
	var req models.TitleSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond[models.TitleSuggestion](c, nil, validation.InvalidFormData())
		return
	}

	out, err := h.service.SuggestTitles(c.Request.Context(), &req)
	respond(c, out, err)
}

// AdaptTone rewrites existing assets for another tone and audience
func (h *GenerationHandler) AdaptTone(c *gin.Context) {
	var req models.ToneAdaptationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond[models.ToneAdaptationResult](c, nil, validation.InvalidFormData())
		return
	}

	out, err := h.service.AdaptTone(c.Request.Context(), &req)
	respond(c, out, err)
}

func bindGenerationRequest(c *gin.Context) (*models.GenerationRequest, error) {
	if strings.HasPrefix(c.ContentType(), contentTypeJSON) {
		var req models.GenerationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, validation.InvalidFormData()
		}
		return &req, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, validation.InvalidFormData()
	}
	return validation.ParseGenerationForm(c.Request.PostForm)
}

// respond writes the {data, error} envelope with a status matching the error kind
func respond[T any](c *gin.Context, data *T, err error) {
	if err == nil {
		c.JSON(http.StatusOK, models.Success(data))
		return
	}

	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		fields := logger.WithContext(c)
		fields["status_code"] = status
		logger.Error("Generation request failed", err, fields)
	}
	c.JSON(status, models.Failure[T](message))
}

// StatusFor maps a service error to its HTTP status and user-facing message
func StatusFor(err error) (int, string) {
	switch {
	case validation.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case services.IsInvocationError(err):
		return statusInvocationFailed, services.GenerationFailedMessage(err)
	default:
		return http.StatusInternalServerError, services.GenerationFailedMessage(err)
	}
}
