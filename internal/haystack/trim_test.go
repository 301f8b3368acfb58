package haystack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/needlebench/internal/tokenizer/tokenizertest"
)

func TestTrim(t *testing.T) {
	tok := tokenizertest.Runes{}

	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{name: "within budget", text: "hello", max: 10, want: "hello"},
		{name: "exact budget", text: "hello", max: 5, want: "hello"},
		{name: "over budget", text: "hello world", max: 5, want: "hello"},
		{name: "multibyte runes count as tokens", text: "héllo wörld", max: 7, want: "héllo w"},
		{name: "zero", text: "hello", max: 0, want: ""},
		{name: "negative", text: "hello", max: -3, want: ""},
		{name: "empty", text: "", max: 3, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trim(tok, tt.text, tt.max))
		})
	}
}
