package haystack

import (
	"context"
	"io/fs"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/needlebench/internal/corpus"
	"github.com/sells-group/needlebench/internal/tokenizer"
)

// Builder produces needle-bearing contexts from a corpus on disk.
type Builder struct {
	tok     tokenizer.Tokenizer
	fsys    fs.FS
	pattern string
	shuffle bool

	cache  bool
	mu     sync.Mutex
	corpus *string
}

// Option configures a Builder.
type Option func(*Builder)

// WithShuffle loads corpus files in the seeded shuffled order.
func WithShuffle(shuffle bool) Option {
	return func(b *Builder) { b.shuffle = shuffle }
}

// WithCorpusCache keeps the concatenated corpus in memory after the first
// build instead of re-reading it for every context.
func WithCorpusCache(cache bool) Option {
	return func(b *Builder) { b.cache = cache }
}

// NewBuilder returns a Builder reading files matching pattern from fsys.
func NewBuilder(tok tokenizer.Tokenizer, fsys fs.FS, pattern string, opts ...Option) *Builder {
	b := &Builder{tok: tok, fsys: fsys, pattern: pattern}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Tokenizer returns the tokenizer contexts are measured with.
func (b *Builder) Tokenizer() tokenizer.Tokenizer { return b.tok }

// Build loads the corpus, trims it to contextLength tokens and inserts the
// needle at depthPercent.
func (b *Builder) Build(ctx context.Context, needle string, contextLength, depthPercent int) (string, error) {
	p, err := b.BuildTokens(ctx, needle, contextLength, depthPercent)
	if err != nil {
		return "", err
	}
	return b.tok.Decode(p.Tokens), nil
}

// BuildTokens is Build without the final decode.
func (b *Builder) BuildTokens(ctx context.Context, needle string, contextLength, depthPercent int) (*Placement, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "haystack: build")
	}

	text, err := b.load()
	if err != nil {
		return nil, err
	}

	text = Trim(b.tok, text, contextLength)
	return InsertTokens(b.tok, needle, text, depthPercent, contextLength)
}

func (b *Builder) load() (string, error) {
	if !b.cache {
		return corpus.Load(b.fsys, b.pattern, b.shuffle)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.corpus != nil {
		return *b.corpus, nil
	}
	text, err := corpus.Load(b.fsys, b.pattern, b.shuffle)
	if err != nil {
		return "", err
	}
	b.corpus = &text
	return text, nil
}
