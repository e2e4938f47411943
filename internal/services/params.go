package services

import (
	"github.com/Conceptual-Machines/podcast-automate/internal/prompt"
)

// Flow names a content operation. It doubles as the prompt template name.
type Flow string

const (
	FlowGenerateAssets Flow = prompt.GenerateContentAssets
	FlowSuggestTitles  Flow = prompt.SuggestPodcastTitles
	FlowAdaptTone      Flow = prompt.AdaptContentTone
)

// Reasoning effort constants
const (
	reasoningEffortLow = "low"
)

// LLMParameters contains the model settings for one flow
type LLMParameters struct {
	Model         string
	ReasoningMode string
}

// GetLLMParameters returns the parameters for each flow. The asset pack is
// long-form writing and uses the configured effort; titles are short and
// never need more than low effort.
func GetLLMParameters(flow Flow, model, reasoningMode string) LLMParameters {
	switch flow {
	case FlowSuggestTitles:
		return LLMParameters{
			Model:         model,
			ReasoningMode: reasoningEffortLow,
		}

	case FlowGenerateAssets, FlowAdaptTone:
		fallthrough
	default:
		if reasoningMode == "" {
			reasoningMode = reasoningEffortLow
		}
		return LLMParameters{
			Model:         model,
			ReasoningMode: reasoningMode,
		}
	}
}
