// Package tokenizer binds model-specific BPE vocabularies for token-exact
// context construction.
package tokenizer

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FallbackEncoding is used for model ids tiktoken has no mapping for.
const FallbackEncoding = "cl100k_base"

// Tokenizer converts text to vocabulary ids and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// Tiktoken implements Tokenizer on top of a tiktoken BPE encoding.
type Tiktoken struct {
	model    string
	encoding string
	enc      *tiktoken.Tiktoken
}

var loaderOnce sync.Once

// useOfflineLoader swaps tiktoken's HTTP rank loader for the embedded one.
func useOfflineLoader() {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// ForModel returns a Tokenizer bound to the vocabulary of the given model.
// Unknown models (for example Claude models) use FallbackEncoding.
func ForModel(model string) (*Tiktoken, error) {
	useOfflineLoader()

	enc, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return &Tiktoken{model: model, enc: enc}, nil
	}

	zap.L().Debug("tokenizer: no encoding for model, using fallback",
		zap.String("model", model),
		zap.String("encoding", FallbackEncoding),
	)
	t, err := ForEncoding(FallbackEncoding)
	if err != nil {
		return nil, err
	}
	t.model = model
	return t, nil
}

// ForEncoding returns a Tokenizer for a named tiktoken encoding.
func ForEncoding(name string) (*Tiktoken, error) {
	useOfflineLoader()

	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, eris.Wrapf(err, "tokenizer: get encoding %s", name)
	}
	return &Tiktoken{encoding: name, enc: enc}, nil
}

// Encode tokenizes text. Special-token text is encoded as ordinary text.
func (t *Tiktoken) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode turns tokens back into text.
func (t *Tiktoken) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Encoding returns the name of the bound BPE encoding when it was chosen
// explicitly or by fallback, and "" when tiktoken resolved it from the model.
func (t *Tiktoken) Encoding() string { return t.encoding }

// Model returns the model id the tokenizer was requested for, if any.
func (t *Tiktoken) Model() string { return t.model }

// Count returns the number of tokens in text.
func Count(tok Tokenizer, text string) int {
	return len(tok.Encode(text))
}
