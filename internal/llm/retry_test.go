package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flakyProvider(failures int) *MockProvider {
	m := &MockProvider{name: "flaky"}
	m.generateFunc = func(_ context.Context, _ *GenerationRequest) (*GenerationResponse, error) {
		if m.calls <= failures {
			return nil, errors.New("503 service unavailable")
		}
		return &GenerationResponse{RawOutput: "{}"}, nil
	}
	return m
}

func fastRetry(next Provider, attempts int) Provider {
	p := WithRetry(next, attempts)
	if r, ok := p.(*RetryProvider); ok {
		r.initialInterval = time.Millisecond
	}
	return p
}

func TestWithRetry_SingleAttemptIsPassthrough(t *testing.T) {
	mock := flakyProvider(0)
	assert.Same(t, mock, WithRetry(mock, 1))
	assert.Same(t, mock, WithRetry(mock, 0))
}

func TestRetryProvider_RecoversFromTransientFailure(t *testing.T) {
	mock := flakyProvider(2)
	p := fastRetry(mock, 3)

	resp, err := p.Generate(context.Background(), &GenerationRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.RawOutput)
	assert.Equal(t, 3, mock.calls)
	assert.Equal(t, "flaky", p.Name())
}

func TestRetryProvider_GivesUp(t *testing.T) {
	mock := flakyProvider(10)
	p := fastRetry(mock, 2)

	_, err := p.Generate(context.Background(), &GenerationRequest{Model: "m"})
	require.Error(t, err)
	assert.Equal(t, 2, mock.calls)
}

func TestRetryProvider_DoesNotRetryCancellation(t *testing.T) {
	mock := &MockProvider{
		name: "slow",
		generateFunc: func(_ context.Context, _ *GenerationRequest) (*GenerationResponse, error) {
			return nil, context.DeadlineExceeded
		},
	}
	p := fastRetry(mock, 5)

	_, err := p.Generate(context.Background(), &GenerationRequest{Model: "m"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.calls)
}
