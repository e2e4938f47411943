package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const (
	// Role constants
	developerRole  = "developer"
	maxOutputTrunc = 200

	// Reasoning effort levels
	reasoningNone   = "none"
	reasoningMedium = "medium"
	reasoningHigh   = "high"
	reasoningMed    = "med"

	// Provider name
	providerNameOpenAI = "openai"
)

// modelsWithReasoning lists the models that accept a reasoning parameter.
// Models like gpt-4.1-mini do NOT support it.
var modelsWithReasoning = map[string]bool{
	"gpt-5":        true,
	"gpt-5-mini":   true,
	"gpt-5-nano":   true,
	"gpt-5.1":      true,
	"gpt-5.1-mini": true,
	"gpt-5.1-nano": true,
	"gpt-5.2":      true,
	"gpt-5.2-mini": true,
	"gpt-5.2-nano": true,
	"gpt-5.2-pro":  true,
}

// OpenAIProvider implements the Provider interface using OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider. Extra request options are
// appended after the API key, which lets tests point the client at a fake server.
func NewOpenAIProvider(apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate implements non-streaming generation using OpenAI's Responses API
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	logger.Info("🎙️ OPENAI GENERATION REQUEST STARTED", logger.Fields{"model": request.Model})

	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := p.buildRequestParams(request)

	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Responses.New(ctx, params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		logger.Warn("❌ OPENAI REQUEST FAILED", logger.Fields{
			"model":       request.Model,
			"duration_ms": apiDuration.Milliseconds(),
			"reason":      err.Error(),
		})
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	logger.Debug("⏱️ OPENAI API CALL COMPLETED", logger.Fields{"duration_ms": apiDuration.Milliseconds()})

	result, err := p.processResponse(resp, request, startTime, transaction)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}
	transaction.SetTag("success", "true")
	return result, nil
}

// buildRequestParams converts GenerationRequest to OpenAI-specific ResponseNewParams
func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) responses.ResponseNewParams {
	inputItems := responses.ResponseInputParam{}

	for _, item := range request.InputArray {
		role, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)

		if !hasRole || !hasContent {
			logger.Warn("⚠️ Skipping invalid input item (missing role or content)", nil)
			continue
		}

		roleEnum := responses.EasyInputMessageRoleUser
		if role == developerRole {
			roleEnum = responses.EasyInputMessageRoleDeveloper
		}

		inputItems = append(inputItems,
			responses.ResponseInputItemParamOfMessage(content, roleEnum),
		)
	}

	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
	}

	if request.SystemPrompt != "" {
		params.Instructions = openai.String(request.SystemPrompt)
	}

	if modelsWithReasoning[request.Model] {
		params.Reasoning = shared.ReasoningParam{
			Effort: reasoningEffort(request.ReasoningMode),
		}
	}

	if request.OutputSchema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(
				request.OutputSchema.Name,
				request.OutputSchema.Schema,
			),
		}
		logger.Debug("📋 JSON SCHEMA CONFIGURED", logger.Fields{"schema": request.OutputSchema.Name})
	}

	return params
}

func reasoningEffort(mode string) shared.ReasoningEffort {
	switch mode {
	case reasoningNone:
		return shared.ReasoningEffort("none")
	case reasoningMedium, reasoningMed:
		return responses.ReasoningEffortMedium
	case reasoningHigh:
		return responses.ReasoningEffortHigh
	default:
		// minimal and low share the cheapest supported effort
		return responses.ReasoningEffortLow
	}
}

// processResponse extracts the JSON text output from the response
func (p *OpenAIProvider) processResponse(
	resp *responses.Response,
	request *GenerationRequest,
	startTime time.Time,
	transaction *sentry.Span,
) (*GenerationResponse, error) {
	span := transaction.StartChild("process_response")
	defer span.Finish()

	textOutput := p.extractAndCleanTextOutput(resp)
	logger.Debug("📥 OPENAI RESPONSE", logger.Fields{
		"output_length": len(textOutput),
		"output_items":  len(resp.Output),
	})

	if textOutput == "" {
		return nil, ErrEmptyResponse
	}

	usage := p.usageStats(resp.Usage)
	logger.Info("✅ OPENAI GENERATION COMPLETED", logger.Fields{
		"model":            request.Model,
		"duration_ms":      time.Since(startTime).Milliseconds(),
		"input_tokens":     usage.InputTokens,
		"output_tokens":    usage.OutputTokens,
		"reasoning_tokens": usage.ReasoningTokens,
		"total_tokens":     usage.TotalTokens,
	})

	return &GenerationResponse{
		RawOutput: textOutput,
		Usage:     usage,
		Model:     request.Model,
	}, nil
}

// extractAndCleanTextOutput extracts and cleans text output from response
func (p *OpenAIProvider) extractAndCleanTextOutput(resp *responses.Response) string {
	return stripCodeFence(resp.OutputText())
}

// stripCodeFence removes a markdown code fence some models wrap JSON in
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// usageStats converts token usage statistics
func (p *OpenAIProvider) usageStats(usage responses.ResponseUsage) Usage {
	return Usage{
		InputTokens:     usage.InputTokens,
		OutputTokens:    usage.OutputTokens,
		ReasoningTokens: usage.OutputTokensDetails.ReasoningTokens,
		TotalTokens:     usage.TotalTokens,
	}
}

// truncate truncates a string to maxLen characters
// truncate keeps at most maxLen runes of s
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
