package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/podcast-automate/internal/config"
	"github.com/Conceptual-Machines/podcast-automate/internal/api/handlers"
	"github.com/Conceptual-Machines/podcast-automate/internal/llm"
	"github.com/Conceptual-Machines/podcast-automate/internal/metrics"
	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/Conceptual-Machines/podcast-automate/internal/prompt"
	"github.com/Conceptual-Machines/podcast-automate/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoProvider struct {
	output string
}

func (p *echoProvider) Name() string { return "echo" }

func (p *echoProvider) Generate(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	return &llm.GenerationResponse{RawOutput: p.output}, nil
}

func testRouter(t *testing.T, cfg *config.Config, output string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := prompt.LoadDefaultRegistry()
	require.NoError(t, err)
	svc := services.NewContentService(&echoProvider{output: output}, registry, services.Options{Model: "gpt-5-mini"})

	return SetupRouter(cfg, Dependencies{
		Content:   svc,
		Provider:  "echo",
		Templates: registry.Names(),
	}, "test")
}

func titlesOutput(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(models.TitleSuggestion{
		Titles: []string{"Ship Small"},
		Hooks:  models.PlatformHooks{LinkedIn: "a", Twitter: "b", Instagram: "c", YouTube: "d"},
	})
	require.NoError(t, err)
	return string(raw)
}

func TestRouter_HealthAndStatic(t *testing.T) {
	router := testRouter(t, &config.Config{LLMModel: "gpt-5-mini"}, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data-copy")
}

func TestRouter_TitlesEndToEnd(t *testing.T) {
	router := testRouter(t, &config.Config{LLMModel: "gpt-5-mini"}, titlesOutput(t))

	body, _ := json.Marshal(models.TitleSuggestionRequest{EpisodeSummary: "An episode", ToneStyle: models.ToneCasual})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"Ship Small"`)
}

func TestRouter_MetricsCountGenerations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry, err := prompt.LoadDefaultRegistry()
	require.NoError(t, err)

	counters := metrics.NewCounters(registry.Names()...)
	svc := services.NewContentService(&echoProvider{output: titlesOutput(t)}, registry, services.Options{
		Model:   "gpt-5-mini",
		Metrics: counters,
	})
	router := SetupRouter(&config.Config{LLMModel: "gpt-5-mini"}, Dependencies{
		Content:   svc,
		Metrics:   counters,
		Stats:     counters,
		Provider:  "echo",
		Templates: registry.Names(),
	}, "test")

	body, _ := json.Marshal(models.TitleSuggestionRequest{EpisodeSummary: "An episode", ToneStyle: models.ToneCasual})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	titles := resp.Generation.Flows[string(services.FlowSuggestTitles)]
	assert.EqualValues(t, 1, titles.Generations)
	assert.Zero(t, titles.Failures)
	assert.Contains(t, resp.Generation.Flows, string(services.FlowGenerateAssets))
	assert.EqualValues(t, 1, resp.API.Requests)
}

func TestRouter_GatewayModeRequiresUser(t *testing.T) {
	router := testRouter(t, &config.Config{LLMModel: "gpt-5-mini", AuthMode: "gateway"}, titlesOutput(t))

	body, _ := json.Marshal(models.TitleSuggestionRequest{EpisodeSummary: "An episode", ToneStyle: models.ToneCasual})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/titles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := testRouter(t, &config.Config{
		LLMModel:           "gpt-5-mini",
		CORSAllowedOrigins: []string{"https://studio.example.com"},
	}, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/generate", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://studio.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
