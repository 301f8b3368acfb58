package cost

import "maps"

// Rates maps a model id to its token pricing.
type Rates map[string]ModelRate

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// With returns a copy of r with model priced at rate.
func (r Rates) With(model string, rate ModelRate) Rates {
	out := make(Rates, len(r)+1)
	maps.Copy(out, r)
	out[model] = rate
	return out
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Chat computes the cost of one chat call. Unknown models cost 0.
func (c *Calculator) Chat(model string, input, output int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	inCost := (float64(input) / 1e6) * rate.Input
	outCost := (float64(output) / 1e6) * rate.Output
	return inCost + outCost
}

// Known reports whether model has a configured rate.
func (c *Calculator) Known(model string) bool {
	_, ok := c.rates[model]
	return ok
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		"gpt-4-1106-preview":         {Input: 10.00, Output: 30.00},
		"gpt-4-turbo":                {Input: 10.00, Output: 30.00},
		"gpt-4o":                     {Input: 2.50, Output: 10.00},
		"gpt-3.5-turbo-1106":         {Input: 1.00, Output: 2.00},
		"claude-2.1":                 {Input: 8.00, Output: 24.00},
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
		"gemini-1.5-pro":             {Input: 3.50, Output: 10.50},
		"gemini-2.5-flash":           {Input: 0.30, Output: 2.50},
	}
}
