package observability

import (
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/podcast-automate/internal/llm"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6
	defaultPricingModel = "gpt-5-mini"
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the models the service is configured with
var PricingTable = map[string]ModelPricing{
	"gpt-5":            {InputPricePer1K: 0.00125, OutputPricePer1K: 0.01},
	"gpt-5-mini":       {InputPricePer1K: 0.00025, OutputPricePer1K: 0.002},
	"gpt-5-nano":       {InputPricePer1K: 0.00005, OutputPricePer1K: 0.0004},
	"gpt-4o":           {InputPricePer1K: 0.005, OutputPricePer1K: 0.015},
	"gpt-4o-mini":      {InputPricePer1K: 0.00015, OutputPricePer1K: 0.0006},
	"gemini-2.5-pro":   {InputPricePer1K: 0.00125, OutputPricePer1K: 0.01},
	"gemini-2.5-flash": {InputPricePer1K: 0.0003, OutputPricePer1K: 0.0025},
}

// CalculateCost calculates the cost in USD for one model call.
// Reasoning tokens are already part of the output count and are billed as output.
func CalculateCost(model string, usage llm.Usage) float64 {
	pricing, exists := PricingTable[strings.ToLower(model)]
	if !exists {
		pricing = PricingTable[defaultPricingModel]
	}

	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
