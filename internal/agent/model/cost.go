package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// defaultPricing provides hardcoded USD pricing per 1M tokens (text tokens).
var defaultPricing = map[string]Pricing{
	"gemini-2.5-flash":         {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite":    {InputPerM: 0.10, OutputPerM: 0.40},
	"claude-3-5-haiku-latest":  {InputPerM: 0.80, OutputPerM: 4.00},
	"claude-3-7-sonnet-latest": {InputPerM: 3.00, OutputPerM: 15.00},
	"claude-sonnet-4-20250514": {InputPerM: 3.00, OutputPerM: 15.00},
}

// ResolvePricing returns hardcoded pricing for a model; unknown models cost zero.
func ResolvePricing(model string) Pricing {
	return defaultPricing[model]
}

// ComputeCost converts token usage to USD cost using per-1M Pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
