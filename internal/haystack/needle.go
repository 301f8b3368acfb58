package haystack

import (
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/needlebench/internal/tokenizer"
)

// ReservedTokens is held back from every context length for the system
// instruction, the retrieval question and the model's answer.
const ReservedTokens = 150

var (
	// ErrDepthOutOfRange is returned for depths outside 0..100.
	ErrDepthOutOfRange = eris.New("haystack: depth percent out of range")
	// ErrBudgetTooSmall is returned when the needle alone does not fit.
	ErrBudgetTooSmall = eris.New("haystack: context length too small for needle")
)

// Placement is the token-level outcome of an insertion.
type Placement struct {
	Tokens      []int // final document tokens
	NeedleStart int   // index of the first needle token in Tokens
	NeedleLen   int
	Truncated   bool // haystack was cut to make room for the needle
}

// Insert places needle inside haystack at depthPercent of the haystack's
// token stream and returns the decoded document.
func Insert(tok tokenizer.Tokenizer, needle, haystack string, depthPercent, contextLength int) (string, error) {
	p, err := InsertTokens(tok, needle, haystack, depthPercent, contextLength)
	if err != nil {
		return "", err
	}
	return tok.Decode(p.Tokens), nil
}

// InsertTokens performs the insertion in token space.
//
// The haystack is cut from the end so haystack plus needle fit in
// contextLength-ReservedTokens. At depth 100 the needle is appended. Otherwise
// the split index floor(len*depth/100) walks backward until the token before
// it is a period, or it reaches 0, so the needle starts a sentence.
func InsertTokens(tok tokenizer.Tokenizer, needle, haystack string, depthPercent, contextLength int) (*Placement, error) {
	if depthPercent < 0 || depthPercent > 100 {
		return nil, eris.Wrapf(ErrDepthOutOfRange, "depth %d", depthPercent)
	}

	needleTokens := tok.Encode(needle)
	hayTokens := tok.Encode(haystack)

	budget := contextLength - ReservedTokens
	if budget-len(needleTokens) < 0 {
		return nil, eris.Wrapf(ErrBudgetTooSmall, "context length %d, needle %d tokens", contextLength, len(needleTokens))
	}

	p := &Placement{NeedleLen: len(needleTokens)}
	if len(hayTokens)+len(needleTokens) > budget {
		hayTokens = hayTokens[:budget-len(needleTokens)]
		p.Truncated = true
	}

	if depthPercent == 100 {
		p.NeedleStart = len(hayTokens)
		p.Tokens = append(slices.Clip(hayTokens), needleTokens...)
		return p, nil
	}

	periods := tok.Encode(".")
	at := len(hayTokens) * depthPercent / 100
	for at > 0 && !slices.Contains(periods, hayTokens[at-1]) {
		at--
	}

	out := make([]int, 0, len(hayTokens)+len(needleTokens))
	out = append(out, hayTokens[:at]...)
	out = append(out, needleTokens...)
	out = append(out, hayTokens[at:]...)

	p.NeedleStart = at
	p.Tokens = out
	return p, nil
}
