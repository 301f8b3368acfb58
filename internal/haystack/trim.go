// Package haystack builds token-exact long documents with a needle inserted
// at a chosen depth.
package haystack

import "github.com/sells-group/needlebench/internal/tokenizer"

// Trim cuts text to at most maxTokens tokens. Text already within budget is
// returned unchanged.
func Trim(tok tokenizer.Tokenizer, text string, maxTokens int) string {
	tokens := tok.Encode(text)
	if len(tokens) <= maxTokens {
		return text
	}
	if maxTokens < 0 {
		maxTokens = 0
	}
	return tok.Decode(tokens[:maxTokens])
}
