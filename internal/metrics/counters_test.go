package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_RecordGeneration(t *testing.T) {
	c := NewCounters("generate_content_assets", "suggest_titles")
	ctx := context.Background()

	c.RecordGeneration(ctx, "generate_content_assets", "gpt-5-mini", 100*time.Millisecond, TokenUsage{Total: 150}, true)
	c.RecordGeneration(ctx, "generate_content_assets", "gpt-5-mini", 300*time.Millisecond, TokenUsage{}, false)
	c.RecordGeneration(ctx, "adapt_content_tone", "gpt-5-mini", time.Second, TokenUsage{Total: 40}, true)

	snap := c.Snapshot()
	require.Len(t, snap.Flows, 3)

	assets := snap.Flows["generate_content_assets"]
	assert.EqualValues(t, 2, assets.Generations)
	assert.EqualValues(t, 1, assets.Failures)
	assert.EqualValues(t, 150, assets.Tokens)
	assert.EqualValues(t, 200, assets.AvgLatencyMs)

	assert.Equal(t, FlowStats{}, snap.Flows["suggest_titles"])
	assert.EqualValues(t, 1, snap.Flows["adapt_content_tone"].Generations)
}

func TestCounters_RecordAPIRequest(t *testing.T) {
	c := NewCounters()
	ctx := context.Background()

	c.RecordAPIRequest(ctx, "/api/v1/generate", 200, time.Millisecond)
	c.RecordAPIRequest(ctx, "/api/v1/generate", 502, time.Millisecond)
	c.RecordAPIRequest(ctx, "/api/v1/titles", 400, time.Millisecond)

	snap := c.Snapshot()
	assert.EqualValues(t, 3, snap.APIRequests)
	assert.EqualValues(t, 1, snap.ServerErrors)
}

func TestCounters_SnapshotIsACopy(t *testing.T) {
	c := NewCounters("suggest_titles")
	snap := c.Snapshot()

	c.RecordGeneration(context.Background(), "suggest_titles", "m", time.Millisecond, TokenUsage{}, true)

	assert.Zero(t, snap.Flows["suggest_titles"].Generations)
	assert.EqualValues(t, 1, c.Snapshot().Flows["suggest_titles"].Generations)
}

func TestCounters_Concurrent(t *testing.T) {
	c := NewCounters()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordGeneration(context.Background(), "suggest_titles", "m", time.Millisecond, TokenUsage{Total: 1}, true)
			c.RecordAPIRequest(context.Background(), "/api/v1/titles", 200, time.Millisecond)
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.EqualValues(t, 50, snap.Flows["suggest_titles"].Generations)
	assert.EqualValues(t, 50, snap.APIRequests)
}

func TestMulti_IncludesCounters(t *testing.T) {
	c := NewCounters()
	var r Recorder = Multi{Noop{}, c}

	r.RecordGeneration(context.Background(), "adapt_content_tone", "m", time.Millisecond, TokenUsage{}, false)

	assert.EqualValues(t, 1, c.Snapshot().Flows["adapt_content_tone"].Failures)
}
