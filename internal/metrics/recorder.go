package metrics

import (
	"context"
	"time"
)

// TokenUsage is the token accounting reported for one model call
type TokenUsage struct {
	Input     int64
	Output    int64
	Reasoning int64
	Total     int64
}

// GenerationRecorder receives one event per content flow invocation
type GenerationRecorder interface {
	RecordGeneration(ctx context.Context, flow, model string, duration time.Duration, usage TokenUsage, success bool)
}

// APIRecorder receives one event per HTTP request
type APIRecorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
}

// Recorder is implemented by every metrics sink
type Recorder interface {
	GenerationRecorder
	APIRecorder
}

// Multi fans events out to several sinks
type Multi []Recorder

// RecordGeneration forwards to every sink
func (m Multi) RecordGeneration(ctx context.Context, flow, model string, duration time.Duration, usage TokenUsage, success bool) {
	for _, r := range m {
		r.RecordGeneration(ctx, flow, model, duration, usage, success)
	}
}

// RecordAPIRequest forwards to every sink
func (m Multi) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range m {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

// Noop discards every event
type Noop struct{}

func (Noop) RecordGeneration(context.Context, string, string, time.Duration, TokenUsage, bool) {}
func (Noop) RecordAPIRequest(context.Context, string, int, time.Duration) {}
