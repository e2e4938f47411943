package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider(t *testing.T) {
	provider := NewOpenAIProvider("test-api-key")
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
	assert.NotNil(t, provider.client)
}

func TestOpenAIProvider_BuildRequestParams(t *testing.T) {
	provider := NewOpenAIProvider("test-key")

	t.Run("system prompt and reasoning", func(t *testing.T) {
		params := provider.buildRequestParams(&GenerationRequest{
			Model:         "gpt-5-mini",
			ReasoningMode: "medium",
			SystemPrompt:  "test system prompt",
			InputArray:    []map[string]any{{"role": "user", "content": "test content"}},
		})
		assert.Equal(t, "gpt-5-mini", params.Model)
		assert.Equal(t, "test system prompt", params.Instructions.Value)
		assert.Equal(t, responses.ReasoningEffortMedium, params.Reasoning.Effort)
		assert.Len(t, params.Input.OfInputItemList, 1)
	})

	t.Run("model without reasoning support", func(t *testing.T) {
		params := provider.buildRequestParams(&GenerationRequest{
			Model:         "gpt-4.1-mini",
			ReasoningMode: "high",
			InputArray:    []map[string]any{{"role": "user", "content": "test"}},
		})
		assert.Empty(t, params.Reasoning.Effort)
	})

	t.Run("json schema output", func(t *testing.T) {
		schema, err := OutputSchemaFor(SchemaContentPack)
		require.NoError(t, err)
		params := provider.buildRequestParams(&GenerationRequest{
			Model:        "gpt-5-mini",
			InputArray:   []map[string]any{{"role": "user", "content": "test"}},
			OutputSchema: schema,
		})
		require.NotNil(t, params.Text.Format.OfJSONSchema)
		assert.Equal(t, SchemaContentPack, params.Text.Format.OfJSONSchema.Name)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
	assert.Equal(t, "", stripCodeFence(""))
}

func fakeResponsesServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "gpt-5-mini", payload["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         "resp_1",
			"object":     "response",
			"created_at": 1700000000,
			"model":      "gpt-5-mini",
			"status":     "completed",
			"output": []any{
				map[string]any{
					"id":     "msg_1",
					"type":   "message",
					"role":   "assistant",
					"status": "completed",
					"content": []any{
						map[string]any{"type": "output_text", "text": text, "annotations": []any{}},
					},
				},
			},
			"usage": map[string]any{
				"input_tokens":          10,
				"output_tokens":         20,
				"total_tokens":          30,
				"input_tokens_details":  map[string]any{"cached_tokens": 0},
				"output_tokens_details": map[string]any{"reasoning_tokens": 5},
			},
		})
	}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	got := truncate("épisode", 1)
	assert.Equal(t, "é...", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate("🎙️ Episode 42", 1)
	assert.Equal(t, "🎙...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestOpenAIProvider_Generate(t *testing.T) {
	server := fakeResponsesServer(t, "```json\n"+validTitleJSON+"\n```")
	defer server.Close()

	provider := NewOpenAIProvider("test-key", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))

	var out titleOutput
	resp, err := GenerateStructured(context.Background(), provider, &GenerationRequest{
		Model:        "gpt-5-mini",
		InputArray:   []map[string]any{{"role": "user", "content": "titles"}},
		OutputSchema: titleRequest(t).OutputSchema,
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bootstrapped and Proud"}, out.Titles)
	assert.EqualValues(t, 30, resp.Usage.TotalTokens)
	assert.EqualValues(t, 5, resp.Usage.ReasoningTokens)
}

func TestOpenAIProvider_GenerateEmptyOutput(t *testing.T) {
	server := fakeResponsesServer(t, "")
	defer server.Close()

	provider := NewOpenAIProvider("test-key", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))

	_, err := provider.Generate(context.Background(), &GenerationRequest{
		Model:      "gpt-5-mini",
		InputArray: []map[string]any{{"role": "user", "content": "titles"}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
