// Package tokenizertest provides a deterministic tokenizer for tests.
package tokenizertest

// Runes tokenizes each rune as its own token, using the code point as the id.
// Encoding is exactly reversible and "." is always the single token 46.
type Runes struct{}

// Encode returns one token per rune.
func (Runes) Encode(text string) []int {
	out := make([]int, 0, len(text))
	for _, r := range text {
		out = append(out, int(r))
	}
	return out
}

// Decode joins the runes back together.
func (Runes) Decode(tokens []int) string {
	rs := make([]rune, len(tokens))
	for i, t := range tokens {
		rs[i] = rune(t)
	}
	return string(rs)
}
