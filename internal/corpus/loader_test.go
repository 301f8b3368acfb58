package corpus

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func essays() fstest.MapFS {
	return fstest.MapFS{
		"essays/a.txt":     {Data: []byte("Alpha. ")},
		"essays/b.txt":     {Data: []byte("Bravo. ")},
		"essays/c.txt":     {Data: []byte("Charlie. ")},
		"essays/d.txt":     {Data: []byte("Delta. ")},
		"essays/e.txt":     {Data: []byte("Echo. ")},
		"essays/notes.md":  {Data: []byte("ignored")},
		"other/unused.txt": {Data: []byte("ignored")},
	}
}

func TestLoad_LexicalOrder(t *testing.T) {
	text, err := Load(essays(), "essays/*.txt", false)
	require.NoError(t, err)
	assert.Equal(t, "Alpha. Bravo. Charlie. Delta. Echo. ", text)
}

func TestLoad_ShuffleIsReproducible(t *testing.T) {
	first, err := Load(essays(), "essays/*.txt", true)
	require.NoError(t, err)
	second, err := Load(essays(), "essays/*.txt", true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, len("Alpha. Bravo. Charlie. Delta. Echo. "))
}

func TestFiles_ShuffleIsPermutation(t *testing.T) {
	plain, err := Files(essays(), "essays/*.txt", false)
	require.NoError(t, err)
	shuffled, err := Files(essays(), "essays/*.txt", true)
	require.NoError(t, err)

	assert.ElementsMatch(t, plain, shuffled)
	assert.Equal(t, Shuffle(plain, DefaultSeed), shuffled)
}

func TestShuffle(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	orig := append([]string(nil), names...)

	got := Shuffle(names, DefaultSeed)
	assert.Equal(t, orig, names, "input must not be modified")
	assert.ElementsMatch(t, names, got)
	assert.Equal(t, got, Shuffle(names, DefaultSeed))
	assert.NotEqual(t, Shuffle(names, DefaultSeed), Shuffle(names, "another seed"))

	assert.Empty(t, Shuffle(nil, DefaultSeed))
	assert.Equal(t, []string{"x"}, Shuffle([]string{"x"}, DefaultSeed))
}

func TestLoad_NoMatches(t *testing.T) {
	_, err := Load(essays(), "missing/*.txt", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFiles))
}

func TestLoad_BadPattern(t *testing.T) {
	_, err := Load(essays(), "essays/[", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus: glob")
}

// failingFS refuses to open one file. It deliberately does not embed MapFS so
// fs.ReadFile has to go through Open.
type failingFS struct {
	files fstest.MapFS
}

func (f failingFS) Open(name string) (fs.File, error) {
	if name == "essays/c.txt" {
		return nil, fs.ErrPermission
	}
	return f.files.Open(name)
}

func TestLoad_UnreadableFileIsFatal(t *testing.T) {
	text, err := Load(failingFS{essays()}, "essays/*.txt", false)
	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "corpus: read essays/c.txt")
}
