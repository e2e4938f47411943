package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrEmptyResponse is returned when the model produced no output text
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrSchemaMismatch is returned when the output does not conform to the requested schema
	ErrSchemaMismatch = errors.New("model output does not match the expected schema")
)

const maxViolationsReported = 5

// GenerateStructured invokes the provider and decodes the schema-validated
// output into out. The request must carry an OutputSchema.
func GenerateStructured(ctx context.Context, provider Provider, request *GenerationRequest, out any) (*GenerationResponse, error) {
	if request.OutputSchema == nil {
		return nil, fmt.Errorf("structured generation requires an output schema")
	}

	resp, err := provider.Generate(ctx, request)
	if err != nil {
		return nil, err
	}
	if resp == nil || strings.TrimSpace(resp.RawOutput) == "" {
		return nil, ErrEmptyResponse
	}

	if err := ValidateAgainstSchema(request.OutputSchema.Schema, resp.RawOutput); err != nil {
		return resp, err
	}

	dec := json.NewDecoder(strings.NewReader(resp.RawOutput))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return resp, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return resp, nil
}

// ValidateAgainstSchema checks a JSON document against a JSON schema
func ValidateAgainstSchema(schema map[string]any, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, maxViolationsReported)
	for i, verr := range result.Errors() {
		if i == maxViolationsReported {
			break
		}
		violations = append(violations, verr.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(violations, "; "))
}
