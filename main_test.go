package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSensitiveHeaders(t *testing.T) {
	filtered := filterSensitiveHeaders(map[string]string{
		"Authorization": "Bearer abc",
		"cookie":        "session=1",
		"Content-Type":  "application/json",
	})

	assert.Equal(t, "[REDACTED]", filtered["Authorization"])
	assert.Equal(t, "[REDACTED]", filtered["cookie"])
	assert.Equal(t, "application/json", filtered["Content-Type"])
}
