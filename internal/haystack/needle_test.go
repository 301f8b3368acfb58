package haystack

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/needlebench/internal/tokenizer"
	"github.com/sells-group/needlebench/internal/tokenizer/tokenizertest"
)

const animals = "A cat sat. A dog ran. A bird flew."

func TestInsert_SnapsToSentenceBoundary(t *testing.T) {
	tok := tokenizertest.Runes{}

	got, err := Insert(tok, " NEEDLE", animals, 50, 1000)
	require.NoError(t, err)
	assert.Equal(t, "A cat sat. NEEDLE A dog ran. A bird flew.", got)
}

func TestInsert_Depths(t *testing.T) {
	tok := tokenizertest.Runes{}

	tests := []struct {
		name  string
		depth int
		want  string
	}{
		{name: "start", depth: 0, want: " NEEDLE" + animals},
		{name: "end", depth: 100, want: animals + " NEEDLE"},
		{name: "just after first period", depth: 30, want: "A cat sat. NEEDLE A dog ran. A bird flew."},
		{name: "before first period", depth: 20, want: " NEEDLE" + animals},
		{name: "second sentence", depth: 90, want: "A cat sat. A dog ran. NEEDLE A bird flew."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Insert(tok, " NEEDLE", animals, tt.depth, 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsert_NoPeriodFallsBackToStart(t *testing.T) {
	tok := tokenizertest.Runes{}

	got, err := Insert(tok, "N", "no periods anywhere in here", 75, 1000)
	require.NoError(t, err)
	assert.Equal(t, "Nno periods anywhere in here", got)
}

func TestInsert_TruncatesHaystackNotNeedle(t *testing.T) {
	tok := tokenizertest.Runes{}
	hay := strings.Repeat("abcd.", 10) // 50 tokens
	contextLength := ReservedTokens + 20

	p, err := InsertTokens(tok, "XYZ", hay, 100, contextLength)
	require.NoError(t, err)

	assert.True(t, p.Truncated)
	assert.Len(t, p.Tokens, 20)
	assert.Equal(t, 17, p.NeedleStart)
	assert.Equal(t, hay[:17]+"XYZ", tok.Decode(p.Tokens))
}

func TestInsert_NoTruncationWithinBudget(t *testing.T) {
	tok := tokenizertest.Runes{}

	p, err := InsertTokens(tok, "XYZ", animals, 50, 1000)
	require.NoError(t, err)
	assert.False(t, p.Truncated)
	assert.Len(t, p.Tokens, len(animals)+3)
}

func TestInsert_BudgetTooSmall(t *testing.T) {
	tok := tokenizertest.Runes{}

	_, err := Insert(tok, "LONGNEEDLE", animals, 50, ReservedTokens+5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBudgetTooSmall))

	// Exactly enough room for the needle leaves no haystack.
	got, err := Insert(tok, "LONGNEEDLE", animals, 50, ReservedTokens+10)
	require.NoError(t, err)
	assert.Equal(t, "LONGNEEDLE", got)
}

func TestInsert_DepthOutOfRange(t *testing.T) {
	tok := tokenizertest.Runes{}

	for _, depth := range []int{-1, 101} {
		_, err := Insert(tok, "N", animals, depth, 1000)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDepthOutOfRange))
	}
}

func TestInsertTokens_Invariants(t *testing.T) {
	tok := tokenizertest.Runes{}
	hay := strings.Repeat("Some words here. More words follow it. ", 40)
	needle := " The needle sentence."
	needleTokens := tok.Encode(needle)
	period := tok.Encode(".")[0]

	for _, contextLength := range []int{ReservedTokens + len(needleTokens), 300, 600, 5000} {
		for depth := 0; depth <= 100; depth++ {
			p, err := InsertTokens(tok, needle, hay, depth, contextLength)
			require.NoError(t, err)

			// Needle is contiguous and intact.
			require.LessOrEqual(t, p.NeedleStart+p.NeedleLen, len(p.Tokens))
			assert.Equal(t, needleTokens, p.Tokens[p.NeedleStart:p.NeedleStart+p.NeedleLen])

			// Budget respected.
			assert.LessOrEqual(t, len(p.Tokens), contextLength-ReservedTokens)

			switch {
			case depth == 0:
				assert.Equal(t, 0, p.NeedleStart)
			case depth == 100:
				assert.Equal(t, len(p.Tokens)-p.NeedleLen, p.NeedleStart)
			case p.NeedleStart > 0:
				assert.Equal(t, period, p.Tokens[p.NeedleStart-1], "depth %d length %d", depth, contextLength)
			}
		}
	}
}

func TestInsert_SnapIsNearestPrecedingPeriod(t *testing.T) {
	tok := tokenizertest.Runes{}
	hay := "aaaa.bbbb.cccc.dddd." // 20 tokens, periods at 4, 9, 14, 19

	p, err := InsertTokens(tok, "N", hay, 70, 1000) // candidate 14
	require.NoError(t, err)
	assert.Equal(t, 10, p.NeedleStart)

	p, err = InsertTokens(tok, "N", hay, 75, 1000) // candidate 15, token before is '.'
	require.NoError(t, err)
	assert.Equal(t, 15, p.NeedleStart)
}

func TestInsert_Tiktoken(t *testing.T) {
	tok, err := tokenizer.ForModel("gpt-4-1106-preview")
	require.NoError(t, err)

	hay := strings.Repeat("The quick brown fox jumps over the lazy dog. It was a sunny day in the park. ", 200)
	needle := "\nThe best thing to do in San Francisco is eat a sandwich and sit in Dolores Park on a sunny day.\n"
	period := tok.Encode(".")

	for _, contextLength := range []int{1000, 2000} {
		for _, depth := range []int{0, 25, 50, 75, 100} {
			trimmed := Trim(tok, hay, contextLength)
			p, err := InsertTokens(tok, needle, trimmed, depth, contextLength)
			require.NoError(t, err)

			doc := tok.Decode(p.Tokens)
			assert.Contains(t, doc, needle)
			assert.LessOrEqual(t, len(tok.Encode(doc)), contextLength)

			if depth > 0 && depth < 100 && p.NeedleStart > 0 {
				assert.Contains(t, period, p.Tokens[p.NeedleStart-1])
			}
			if depth == 100 {
				assert.True(t, strings.HasSuffix(doc, needle))
			}
			if depth == 0 {
				assert.True(t, strings.HasPrefix(doc, needle))
			}
		}
	}
}
