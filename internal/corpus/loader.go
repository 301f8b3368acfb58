// Package corpus assembles the haystack source text from a set of documents.
package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"io/fs"
	"math/rand/v2"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultSeed orders shuffled corpora identically across runs.
const DefaultSeed = "The quick brown fox"

// ErrNoFiles is returned when the pattern matches nothing.
var ErrNoFiles = eris.New("corpus: no files match pattern")

// Files returns the names matching pattern in fsys, in lexical order, or
// reordered by Shuffle with DefaultSeed when shuffle is set.
func Files(fsys fs.FS, pattern string, shuffle bool) ([]string, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, eris.Wrapf(err, "corpus: glob %s", pattern)
	}
	if len(names) == 0 {
		return nil, eris.Wrapf(ErrNoFiles, "pattern %s", pattern)
	}
	if shuffle {
		names = Shuffle(names, DefaultSeed)
	}
	return names, nil
}

// Load concatenates every file matching pattern with no separator. Any read
// failure aborts the load; a partial corpus is never returned.
func Load(fsys fs.FS, pattern string, shuffle bool) (string, error) {
	names, err := Files(fsys, pattern, shuffle)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", eris.Wrapf(err, "corpus: read %s", name)
		}
		b.Write(data)
	}
	return b.String(), nil
}

// Shuffle returns a permutation of names that depends only on seed.
//
// The generator is PCG (math/rand/v2) seeded with the first two big-endian
// uint64 words of SHA-256(seed). The permutation is a Fisher–Yates pass from
// the last index down, swapping i with j = Uint64() % (i+1). The ordering is
// stable for this implementation; other implementations will not reproduce it
// unless they follow the same steps.
func Shuffle(names []string, seed string) []string {
	out := make([]string, len(names))
	copy(out, names)

	sum := sha256.Sum256([]byte(seed))
	pcg := rand.NewPCG(binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16]))
	for i := len(out) - 1; i > 0; i-- {
		j := int(pcg.Uint64() % uint64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
