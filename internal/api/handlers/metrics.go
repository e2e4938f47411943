package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/metrics"
	"github.com/gin-gonic/gin"
)

// GenerationStats reports the in-process generation and request totals
type GenerationStats interface {
	Snapshot() metrics.Snapshot
}

type MetricsHandler struct {
	startTime time.Time
	version   string
	templates []string
	model     string
	stats     GenerationStats
}

// NewMetricsHandler serves runtime and generation metrics. A nil stats source
// reports zero totals.
func NewMetricsHandler(version, model string, templates []string, stats GenerationStats) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		templates: templates,
		model:     model,
		stats:     stats,
	}
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
)

// formatUptime formats the uptime duration with seconds rounded to 2 decimal places
func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % secondsPerMinute
	seconds := d.Seconds() - float64(hours*secondsPerHour) - float64(minutes*secondsPerMinute)

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%.2fs", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%.2fs", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", seconds)
}

type MetricsResponse struct {
	Status     string            `json:"status"`
	Uptime     string            `json:"uptime"`
	Timestamp  string            `json:"timestamp"`
	Version    string            `json:"version"`
	StartTime  string            `json:"start_time"`
	System     SystemMetrics     `json:"system"`
	API        APIMetrics        `json:"api"`
	Generation GenerationMetrics `json:"generation"`
}

type APIMetrics struct {
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"server_errors"`
}

type GenerationMetrics struct {
	Model           string                       `json:"model"`
	PromptTemplates []string                     `json:"prompt_templates"`
	Generations     int64                        `json:"generations"`
	Failures        int64                        `json:"failures"`
	Flows           map[string]metrics.FlowStats `json:"flows"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	MemTotalMB   uint64 `json:"mem_total_mb"`
	NumGC        uint32 `json:"num_gc"`
}

const (
	bytesToMB = 1024 * 1024
)

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	var snap metrics.Snapshot
	if h.stats != nil {
		snap = h.stats.Snapshot()
	}
	generation := GenerationMetrics{
		Model:           h.model,
		PromptTemplates: h.templates,
		Flows:           snap.Flows,
	}
	if generation.Flows == nil {
		generation.Flows = map[string]metrics.FlowStats{}
	}
	for _, flow := range generation.Flows {
		generation.Generations += flow.Generations
		generation.Failures += flow.Failures
	}

	resp := MetricsResponse{
		Status:    "healthy",
		Uptime:    formatUptime(uptime),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   m.Alloc / bytesToMB,
			MemTotalMB:   m.TotalAlloc / bytesToMB,
			NumGC:        m.NumGC,
		},
		API: APIMetrics{
			Requests:     snap.APIRequests,
			ServerErrors: snap.ServerErrors,
		},
		Generation: generation,
	}

	c.JSON(http.StatusOK, resp)
}
