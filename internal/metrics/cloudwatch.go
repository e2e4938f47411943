package metrics

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "PodcastAutomate/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// putMetricDataAPI is the part of the CloudWatch client we use
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      putMetricDataAPI
	enabled     bool
	environment string
	async       bool
}

// NewClient creates a new CloudWatch metrics client. Metrics are published in
// production, or elsewhere when force is set.
func NewClient(ctx context.Context, environment string, force bool) (*Client, error) {
	if environment != "production" && !force {
		logger.Info("📊 CloudWatch Metrics: DISABLED", logger.Fields{"environment": environment})
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Warn("⚠️ Failed to load AWS config for CloudWatch", logger.Fields{"reason": err.Error()})
		return &Client{enabled: false, environment: environment}, nil
	}

	logger.Info("📊 CloudWatch Metrics: ✅ ENABLED", logger.Fields{"namespace": namespace})
	return newClientWithAPI(cloudwatch.NewFromConfig(cfg), environment), nil
}

func newClientWithAPI(api putMetricDataAPI, environment string) *Client {
	return &Client{
		client:      api,
		enabled:     true,
		environment: environment,
		async:       true,
	}
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	metricName := "APIRequests"
	if statusCode >= httpStatusServerError {
		metricName = "APIErrors"
	}
	dimensions := []types.Dimension{
		{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
		{Name: aws.String("Environment"), Value: aws.String(m.environment)},
	}

	m.publish(
		datum(metricName, 1, types.StandardUnitCount, dimensions),
		datum("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions),
	)
}

// RecordGeneration records the outcome, latency and token usage of a content flow
func (m *Client) RecordGeneration(
	_ context.Context, flow, model string, duration time.Duration, usage TokenUsage, success bool,
) {
	if !m.enabled {
		return
	}

	outcome := []types.Dimension{
		{Name: aws.String("Flow"), Value: aws.String(flow)},
		{Name: aws.String("Success"), Value: aws.String(boolToString(success))},
		{Name: aws.String("Environment"), Value: aws.String(m.environment)},
	}
	data := []types.MetricDatum{
		datum("Generations", 1, types.StandardUnitCount, outcome),
		datum("GenerationDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, outcome),
	}
	if !success {
		data = append(data, datum("GenerationFailures", 1, types.StandardUnitCount, outcome))
	}

	if usage.Total > 0 {
		byModel := []types.Dimension{
			{Name: aws.String("Model"), Value: aws.String(model)},
			{Name: aws.String("Environment"), Value: aws.String(m.environment)},
		}
		data = append(data,
			datum("LLMTokens/Total", float64(usage.Total), types.StandardUnitCount, byModel),
			datum("LLMTokens/Input", float64(usage.Input), types.StandardUnitCount, byModel),
			datum("LLMTokens/Output", float64(usage.Output), types.StandardUnitCount, byModel),
		)
		if usage.Reasoning > 0 {
			data = append(data, datum("LLMTokens/Reasoning", float64(usage.Reasoning), types.StandardUnitCount, byModel))
		}
	}

	m.publish(data...)
}

func datum(name string, value float64, unit types.StandardUnit, dimensions []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: dimensions,
	}
}

// publish sends the data off the request path
func (m *Client) publish(data ...types.MetricDatum) {
	if m.async {
		go m.putMetrics(data)
		return
	}
	m.putMetrics(data)
}

// putMetrics sends metrics to CloudWatch
func (m *Client) putMetrics(data []types.MetricDatum) {
	if !m.enabled || m.client == nil {
		return
	}

	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: data,
	})
	if err != nil {
		logger.Warn("Failed to record CloudWatch metrics", logger.Fields{
			"count":  len(data),
			"reason": err.Error(),
		})
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
