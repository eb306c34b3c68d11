// internal/tokens/estimator.go
package tokens

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator approximates token counts for usage metering. Counts from the
// provider's own usage report always take precedence; this estimator covers
// providers that omit them. It is deliberately not billing-grade.
type Estimator struct {
	tokenizer *tiktoken.Tiktoken
}

// NewEstimator creates an Estimator using the tokenizer for the given model.
// Unknown models fall back to cl100k_base; if no encoding can be loaded at
// all, the estimator degrades to a word-count heuristic.
func NewEstimator(model string) *Estimator {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return &Estimator{}
		}
	}
	return &Estimator{tokenizer: enc}
}

// Count returns the estimated token count for text.
func (e *Estimator) Count(text string) int {
	if e.tokenizer == nil {
		// Rough heuristic: two tokens per word.
		return len(strings.Fields(text)) * 2
	}
	return len(e.tokenizer.Encode(text, nil, nil))
}
