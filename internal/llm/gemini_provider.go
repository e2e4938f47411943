package llm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate implements non-streaming generation using Gemini's API
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	logger.Info("🎙️ GEMINI GENERATION REQUEST STARTED", logger.Fields{"model": request.Model})

	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	contents := p.buildGeminiContents(request.InputArray)
	if len(contents) == 0 {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini request has no input content")
	}

	config := &genai.GenerateContentConfig{}
	if request.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		}
	}

	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = convertSchemaToGemini(request.OutputSchema.Schema)
	}

	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		logger.Warn("❌ GEMINI REQUEST FAILED", logger.Fields{
			"model":       request.Model,
			"duration_ms": apiDuration.Milliseconds(),
			"reason":      err.Error(),
		})
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	response, err := p.processGeminiResponse(result, request, startTime, transaction)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	transaction.SetTag("success", "true")
	return response, nil
}

// buildGeminiContents converts our input array to Gemini Content format
func (p *GeminiProvider) buildGeminiContents(inputArray []map[string]any) []*genai.Content {
	var contents []*genai.Content

	for _, item := range inputArray {
		_, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)

		if !hasRole || !hasContent {
			logger.Warn("⚠️ Skipping invalid input item (missing role or content)", nil)
			continue
		}

		// Gemini only knows "user" and "model"; developer and system input go as user
		contents = append(contents, &genai.Content{
			Role:  geminiUserRole,
			Parts: []*genai.Part{{Text: content}},
		})
	}

	return contents
}

// processGeminiResponse converts Gemini response to our GenerationResponse
func (p *GeminiProvider) processGeminiResponse(
	result *genai.GenerateContentResponse,
	request *GenerationRequest,
	startTime time.Time,
	transaction *sentry.Span,
) (*GenerationResponse, error) {
	span := transaction.StartChild("process_response")
	defer span.Finish()

	if result == nil || len(result.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	var textOutput string
	for _, part := range candidate.Content.Parts {
		textOutput += part.Text
	}
	textOutput = stripCodeFence(textOutput)
	if textOutput == "" {
		return nil, ErrEmptyResponse
	}

	var usage Usage
	if result.UsageMetadata != nil {
		usage = Usage{
			InputTokens:     int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens:    int64(result.UsageMetadata.CandidatesTokenCount),
			ReasoningTokens: int64(result.UsageMetadata.ThoughtsTokenCount),
			TotalTokens:     int64(result.UsageMetadata.TotalTokenCount),
		}
	}

	logger.Info("✅ GEMINI GENERATION COMPLETED", logger.Fields{
		"model":          request.Model,
		"duration_ms":    time.Since(startTime).Milliseconds(),
		"output_length":  len(textOutput),
		"output_preview": truncate(textOutput, maxOutputTrunc),
		"total_tokens":   usage.TotalTokens,
	})

	return &GenerationResponse{
		RawOutput: textOutput,
		Usage:     usage,
		Model:     request.Model,
	}, nil
}

// convertSchemaToGemini maps the JSON schema subset we use onto genai.Schema.
// Keywords Gemini does not support, such as additionalProperties, are dropped.
func convertSchemaToGemini(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{}
	if t, ok := schema["type"].(string); ok {
		out.Type = geminiType(t)
	}
	if d, ok := schema["description"].(string); ok {
		out.Description = d
	}
	if n, ok := toInt64(schema["minLength"]); ok {
		out.MinLength = &n
	}
	if p, ok := schema["pattern"].(string); ok {
		out.Pattern = p
	}
	if n, ok := toInt64(schema["minItems"]); ok {
		out.MinItems = &n
	}
	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = convertSchemaToGemini(items)
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]any); ok {
				out.Properties[name] = convertSchemaToGemini(sub)
			}
		}
	}

	switch req := schema["required"].(type) {
	case []string:
		out.Required = append([]string(nil), req...)
	case []any:
		for _, r := range req {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}
	if len(out.Required) > 0 {
		// keep Gemini's output in declaration order
		out.PropertyOrdering = append([]string(nil), out.Required...)
	} else if len(out.Properties) > 0 {
		for name := range out.Properties {
			out.PropertyOrdering = append(out.PropertyOrdering, name)
		}
		sort.Strings(out.PropertyOrdering)
	}

	return out
}

func geminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
