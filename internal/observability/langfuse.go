package observability

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/config"
	"github.com/Conceptual-Machines/podcast-automate/internal/llm"
	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"
)

// LangfuseClient wraps the Langfuse client with our configuration.
// A disabled client hands out no-op traces, so callers never branch on it.
type LangfuseClient struct {
	client  *langfuse.Langfuse
	enabled bool
}

// NewLangfuseClient builds the client. The SDK reads LANGFUSE_HOST,
// LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY from the environment.
func NewLangfuseClient(ctx context.Context, cfg *config.Config) *LangfuseClient {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" || cfg.LangfusePublicKey == "" {
		logger.Info("⚠️ Langfuse not configured (LANGFUSE_ENABLED=false or keys not set)", nil)
		return &LangfuseClient{enabled: false}
	}

	logger.Info("✅ Langfuse initialized", logger.Fields{"host": cfg.LangfuseHost})
	return &LangfuseClient{
		client:  langfuse.New(ctx),
		enabled: true,
	}
}

// Disabled returns a client that records nothing
func Disabled() *LangfuseClient {
	return &LangfuseClient{enabled: false}
}

// IsEnabled returns whether Langfuse is enabled
func (c *LangfuseClient) IsEnabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// StartTrace starts a new trace in Langfuse
func (c *LangfuseClient) StartTrace(ctx context.Context, name string, metadata map[string]interface{}) *Trace {
	if !c.IsEnabled() {
		return &Trace{enabled: false, ctx: ctx}
	}

	trace, err := c.client.Trace(&model.Trace{
		Name:     name,
		Metadata: metadata,
	})
	if err != nil {
		logger.Warn("⚠️ Failed to create Langfuse trace", logger.Fields{"reason": err.Error()})
		return &Trace{enabled: false, ctx: ctx}
	}

	logger.Debug("🔍 Langfuse: created trace", logger.Fields{"trace_id": trace.ID, "name": name})
	return &Trace{
		trace:   trace,
		enabled: true,
		ctx:     ctx,
		client:  c.client,
	}
}

// Trace represents a Langfuse trace
type Trace struct {
	trace   *model.Trace
	enabled bool
	ctx     context.Context
	client  *langfuse.Langfuse
}

// Generation creates a new generation span within the trace
func (t *Trace) Generation(name string, metadata map[string]interface{}) *Generation {
	if !t.enabled {
		return &Generation{enabled: false}
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   t.trace.ID,
		Name:      name,
		StartTime: &now,
		Metadata:  metadata,
	}, nil)
	if err != nil {
		logger.Warn("⚠️ Failed to create Langfuse generation", logger.Fields{"reason": err.Error()})
		return &Generation{enabled: false}
	}

	return &Generation{
		generation: gen,
		enabled:    true,
		client:     t.client,
	}
}

// Finish flushes the batched trace events to Langfuse
func (t *Trace) Finish() {
	if t.enabled && t.client != nil {
		t.client.Flush(t.ctx)
	}
}

// Generation represents a Langfuse generation span
type Generation struct {
	generation *model.Generation
	enabled    bool
	client     *langfuse.Langfuse
}

// Record attaches the prompt, the model output and the token usage
func (g *Generation) Record(modelName string, input any, output string, usage llm.Usage) {
	if !g.enabled || g.generation == nil {
		return
	}

	cost := CalculateCost(modelName, usage)
	g.generation.Model = modelName
	g.generation.Input = input
	if output != "" {
		g.generation.Output = output
	}
	g.generation.Usage = model.Usage{
		Input:     int(usage.InputTokens),
		Output:    int(usage.OutputTokens),
		Total:     int(usage.TotalTokens),
		Unit:      model.ModelUsageUnitTokens,
		TotalCost: cost,
	}
	g.Metadata(map[string]interface{}{
		"model":            modelName,
		"cost_usd":         cost,
		"reasoning_tokens": usage.ReasoningTokens,
	})
}

// Metadata adds metadata to the generation
func (g *Generation) Metadata(metadata map[string]interface{}) {
	if !g.enabled || g.generation == nil {
		return
	}
	md, ok := g.generation.Metadata.(map[string]interface{})
	if !ok || md == nil {
		md = make(map[string]interface{}, len(metadata))
		g.generation.Metadata = md
	}
	for k, v := range metadata {
		md[k] = v
	}
}

// SetLevel sets the level of the generation
func (g *Generation) SetLevel(level string) {
	if g.enabled && g.generation != nil {
		g.generation.Level = model.ObservationLevel(level)
	}
}

// Fail marks the generation as failed with a status message
func (g *Generation) Fail(err error) {
	if g.enabled && g.generation != nil && err != nil {
		g.generation.Level = model.ObservationLevelError
		g.generation.StatusMessage = err.Error()
	}
}

// Finish completes the generation and sends it to Langfuse
func (g *Generation) Finish() {
	if !g.enabled || g.generation == nil || g.client == nil {
		return
	}
	now := time.Now()
	g.generation.EndTime = &now
	if _, err := g.client.GenerationEnd(g.generation); err != nil {
		logger.Warn("⚠️ Failed to end Langfuse generation", logger.Fields{"reason": err.Error()})
	}
}
