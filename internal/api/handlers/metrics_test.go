package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5.00s", formatUptime(5*time.Second))
	assert.Equal(t, "2m3.00s", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h0m1.50s", formatUptime(time.Hour+1500*time.Millisecond))
}

func getMetrics(t *testing.T, h *MetricsHandler) MetricsResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/metrics", h.GetMetrics)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetMetrics(t *testing.T) {
	resp := getMetrics(t, NewMetricsHandler("v1.2.3", "gpt-5-mini", []string{"adapt_content_tone"}, nil))

	assert.Equal(t, "v1.2.3", resp.Version)
	assert.Equal(t, "gpt-5-mini", resp.Generation.Model)
	assert.Equal(t, []string{"adapt_content_tone"}, resp.Generation.PromptTemplates)
	assert.Empty(t, resp.Generation.Flows)
	assert.Zero(t, resp.API.Requests)
}

func TestGetMetrics_GenerationCounters(t *testing.T) {
	ctx := context.Background()
	counters := metrics.NewCounters("generate_content_assets", "suggest_titles", "adapt_content_tone")
	counters.RecordGeneration(ctx, "generate_content_assets", "gpt-5-mini", 2*time.Second, metrics.TokenUsage{Total: 900}, true)
	counters.RecordGeneration(ctx, "generate_content_assets", "gpt-5-mini", time.Second, metrics.TokenUsage{}, false)
	counters.RecordGeneration(ctx, "suggest_titles", "gpt-5-mini", time.Second, metrics.TokenUsage{Total: 100}, true)
	counters.RecordAPIRequest(ctx, "/api/v1/generate", http.StatusBadGateway, time.Second)
	counters.RecordAPIRequest(ctx, "/api/v1/titles", http.StatusOK, time.Second)

	resp := getMetrics(t, NewMetricsHandler("v1.2.3", "gpt-5-mini", nil, counters))

	assert.EqualValues(t, 3, resp.Generation.Generations)
	assert.EqualValues(t, 1, resp.Generation.Failures)
	require.Contains(t, resp.Generation.Flows, "generate_content_assets")
	assets := resp.Generation.Flows["generate_content_assets"]
	assert.EqualValues(t, 2, assets.Generations)
	assert.EqualValues(t, 1, assets.Failures)
	assert.EqualValues(t, 900, assets.Tokens)
	assert.EqualValues(t, 1500, assets.AvgLatencyMs)
	assert.Zero(t, resp.Generation.Flows["adapt_content_tone"].Generations)

	assert.EqualValues(t, 2, resp.API.Requests)
	assert.EqualValues(t, 1, resp.API.ServerErrors)
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler("openai", "gpt-5-mini", true).HealthCheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"provider":"openai"`)
}
