package services

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/llm"
	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/Conceptual-Machines/podcast-automate/internal/metrics"
	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/Conceptual-Machines/podcast-automate/internal/observability"
	"github.com/Conceptual-Machines/podcast-automate/internal/prompt"
	"github.com/Conceptual-Machines/podcast-automate/internal/source"
	"github.com/Conceptual-Machines/podcast-automate/internal/validation"
)

const defaultTimeout = 120 * time.Second

// ProgressGenerated is stamped on every content pack the model returns
const ProgressGenerated = "Generated initial content assets from the podcast source."

// SourceResolver fetches the material behind a link source
type SourceResolver interface {
	Resolve(ctx context.Context, source string) (string, error)
}

// Options configures a ContentService. Zero values select safe defaults.
type Options struct {
	Model         string
	ReasoningMode string
	Timeout       time.Duration

	// Resolver enriches link sources; nil disables resolution
	Resolver SourceResolver
	Langfuse *observability.LangfuseClient
	Metrics  metrics.GenerationRecorder
}

// ContentService runs the three content flows against a model provider.
// It holds no per-request state and is safe for concurrent use.
type ContentService struct {
	provider      llm.Provider
	prompts       *prompt.Registry
	resolver      SourceResolver
	langfuse      *observability.LangfuseClient
	metrics       metrics.GenerationRecorder
	model         string
	reasoningMode string
	timeout       time.Duration
}

// NewContentService wires a provider and the prompt registry into a service
func NewContentService(provider llm.Provider, prompts *prompt.Registry, opts Options) *ContentService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Langfuse == nil {
		opts.Langfuse = observability.Disabled()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	return &ContentService{
		provider:      provider,
		prompts:       prompts,
		resolver:      opts.Resolver,
		langfuse:      opts.Langfuse,
		metrics:       opts.Metrics,
		model:         opts.Model,
		reasoningMode: opts.ReasoningMode,
		timeout:       opts.Timeout,
	}
}

// HandleSubmission validates a raw form submission and runs the asset flow.
// It never returns a Go error: every outcome is carried by the envelope.
func (s *ContentService) HandleSubmission(ctx context.Context, values url.Values) models.ActionResult[models.ContentPack] {
	req, err := validation.ParseGenerationForm(values)
	if err != nil {
		return models.Failure[models.ContentPack](err.Error())
	}

	pack, err := s.GenerateAssets(ctx, req)
	if err != nil {
		return models.Failure[models.ContentPack](GenerationFailedMessage(err))
	}
	return models.Success(pack)
}

// GenerateAssets produces the full content pack for a podcast source
func (s *ContentService) GenerateAssets(ctx context.Context, req *models.GenerationRequest) (*models.ContentPack, error) {
	if err := validation.ValidateGenerationRequest(req); err != nil {
		return nil, err
	}

	input := prompt.AssetInput(req, s.resolveSource(ctx, req.PodcastSource))

	var pack models.ContentPack
	if err := s.run(ctx, FlowGenerateAssets, input, &pack); err != nil {
		return nil, err
	}
	pack.Progress = ProgressGenerated
	return &pack, nil
}

// SuggestTitles produces title options and per-platform hooks for a summary
func (s *ContentService) SuggestTitles(ctx context.Context, req *models.TitleSuggestionRequest) (*models.TitleSuggestion, error) {
	if err := validation.ValidateTitleRequest(req); err != nil {
		return nil, err
	}

	var out models.TitleSuggestion
	if err := s.run(ctx, FlowSuggestTitles, prompt.TitleInput(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdaptTone rewrites existing assets for a new tone and audience
func (s *ContentService) AdaptTone(ctx context.Context, req *models.ToneAdaptationRequest) (*models.ToneAdaptationResult, error) {
	if err := validation.ValidateToneAdaptationRequest(req); err != nil {
		return nil, err
	}

	var out models.ToneAdaptationResult
	if err := s.run(ctx, FlowAdaptTone, prompt.ToneInput(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// resolveSource returns retrieved material for link sources, or "" when the
// source is a transcript, resolution is disabled, or the fetch failed
func (s *ContentService) resolveSource(ctx context.Context, src string) string {
	if s.resolver == nil {
		return ""
	}

	text, err := s.resolver.Resolve(ctx, src)
	if err != nil {
		if !errors.Is(err, source.ErrNotALink) {
			logger.Warn("Source resolution failed, sending link unchanged", logger.Fields{
				"source": src,
				"reason": err.Error(),
			})
		}
		return ""
	}
	return text
}

// run renders the flow's template, calls the model under the service timeout
// and decodes the schema-checked output into out
func (s *ContentService) run(ctx context.Context, flow Flow, input prompt.Input, out any) error {
	rendered, err := s.prompts.Render(string(flow), input)
	if err != nil {
		return err
	}
	schema, err := llm.OutputSchemaFor(rendered.SchemaName)
	if err != nil {
		return err
	}

	params := GetLLMParameters(flow, s.model, s.reasoningMode)
	request := &llm.GenerationRequest{
		Model:         params.Model,
		InputArray:    rendered.InputArray(),
		ReasoningMode: params.ReasoningMode,
		SystemPrompt:  rendered.System,
		OutputSchema:  schema,
	}

	trace := s.langfuse.StartTrace(ctx, string(flow), map[string]interface{}{
		"prompt_version": rendered.Version,
		"provider":       s.provider.Name(),
	})
	defer trace.Finish()
	generation := trace.Generation(rendered.Name, nil)
	defer generation.Finish()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := llm.GenerateStructured(callCtx, s.provider, request, out)
	duration := time.Since(start)

	var usage llm.Usage
	var raw string
	if resp != nil {
		usage = resp.Usage
		raw = resp.RawOutput
	}
	generation.Record(params.Model, request.InputArray, raw, usage)
	s.metrics.RecordGeneration(ctx, string(flow), params.Model, duration, metrics.TokenUsage{
		Input:     usage.InputTokens,
		Output:    usage.OutputTokens,
		Reasoning: usage.ReasoningTokens,
		Total:     usage.TotalTokens,
	}, err == nil)

	fields := logger.Fields{
		"provider":     s.provider.Name(),
		"total_tokens": usage.TotalTokens,
	}
	if err != nil {
		generation.Fail(err)
		fields["duration_ms"] = duration.Milliseconds()
		fields["flow"] = string(flow)
		logger.Error("Model invocation failed", err, fields)
		return &InvocationError{Flow: flow, Err: err}
	}

	logger.LogGenerationRequest(ctx, string(flow), params.Model, duration, fields)
	return nil
}
