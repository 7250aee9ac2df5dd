package progress

import "github.com/sablewood-photography/curator/internal/providers"

// Price is the provider's advertised rate in USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// modelPrices is the static price table. Local models are absent: no
// reported usage, no cost.
var modelPrices = map[string]Price{
	"gpt-4o":           {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":      {Input: 0.15, Output: 0.60},
	"gpt-4.1":          {Input: 2.00, Output: 8.00},
	"gpt-4.1-mini":     {Input: 0.40, Output: 1.60},
	"gemini-1.5-flash": {Input: 0.075, Output: 0.30},
	"gemini-1.5-pro":   {Input: 1.25, Output: 5.00},
	"gemini-2.0-flash": {Input: 0.10, Output: 0.40},
}

// Cost estimates the dollar cost of one usage sample for the given model.
// Unknown models cost zero.
func Cost(model string, u providers.Usage) float64 {
	price, ok := modelPrices[model]
	if !ok {
		return 0
	}
	return (float64(u.InputTokens)*price.Input + float64(u.OutputTokens)*price.Output) / 1e6
}
