package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderFactory_InfersFromModel(t *testing.T) {
	f := NewProviderFactory("sk-test", "")

	p, err := f.GetProvider(context.Background(), "gpt-5-mini", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = f.GetProvider(context.Background(), "gemini-2.5-flash", "")
	assert.Error(t, err, "gemini key is not configured")
}

func TestProviderFactory_ExplicitName(t *testing.T) {
	f := NewProviderFactory("", "")

	_, err := f.GetProvider(context.Background(), "gpt-5-mini", "openai")
	assert.Error(t, err)

	_, err = f.GetProvider(context.Background(), "gpt-5-mini", "anthropic")
	assert.ErrorContains(t, err, "unknown provider")
}
