package metrics

import (
	"context"
	"sync"
	"time"
)

// FlowStats are the running totals for one content flow
type FlowStats struct {
	Generations  int64 `json:"generations"`
	Failures     int64 `json:"failures"`
	Tokens       int64 `json:"tokens"`
	AvgLatencyMs int64 `json:"avg_latency_ms"`

	totalLatency time.Duration
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Flows        map[string]FlowStats `json:"flows"`
	APIRequests  int64                `json:"api_requests"`
	ServerErrors int64                `json:"server_errors"`
}

// Counters keeps in-process totals for the metrics endpoint. It is safe for
// concurrent use.
type Counters struct {
	mu           sync.Mutex
	flows        map[string]*FlowStats
	apiRequests  int64
	serverErrors int64
}

// NewCounters creates counters with the given flows reported from zero
func NewCounters(flows ...string) *Counters {
	c := &Counters{flows: make(map[string]*FlowStats, len(flows))}
	for _, f := range flows {
		c.flows[f] = &FlowStats{}
	}
	return c
}

// RecordGeneration counts one flow invocation
func (c *Counters) RecordGeneration(_ context.Context, flow, _ string, duration time.Duration, usage TokenUsage, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.flows[flow]
	if !ok {
		stats = &FlowStats{}
		c.flows[flow] = stats
	}
	stats.Generations++
	if !success {
		stats.Failures++
	}
	stats.Tokens += usage.Total
	stats.totalLatency += duration
	stats.AvgLatencyMs = (stats.totalLatency / time.Duration(stats.Generations)).Milliseconds()
}

// RecordAPIRequest counts one HTTP request
func (c *Counters) RecordAPIRequest(_ context.Context, _ string, statusCode int, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiRequests++
	if statusCode >= httpStatusServerError {
		c.serverErrors++
	}
}

// Snapshot copies the current totals
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	flows := make(map[string]FlowStats, len(c.flows))
	for name, stats := range c.flows {
		flows[name] = *stats
	}
	return Snapshot{
		Flows:        flows,
		APIRequests:  c.apiRequests,
		ServerErrors: c.serverErrors,
	}
}
