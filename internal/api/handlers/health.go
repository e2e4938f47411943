package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and which optional integrations are on
type HealthHandler struct {
	provider       string
	model          string
	sourceResolver bool
}

func NewHealthHandler(provider, model string, sourceResolver bool) *HealthHandler {
	return &HealthHandler{
		provider:       provider,
		model:          model,
		sourceResolver: sourceResolver,
	}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resolverStatus := "disabled"
	if h.sourceResolver {
		resolverStatus = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"llm": gin.H{
			"provider": h.provider,
			"model":    h.model,
		},
		"source_resolver": gin.H{
			"status": resolverStatus,
		},
	})
}
