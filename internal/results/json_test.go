package results

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(depth int) Record {
	return Record{
		Model:         "gpt-4-1106-preview",
		ContextLength: 1000,
		DepthPercent:  depth,
		Version:       1,
		Needle:        "The best thing to do in San Francisco is eat a sandwich.",
		ModelResponse: "Eat a sandwich in Dolores Park.",
		Score:         10,
	}
}

func TestJSONStore_MissingFileIsEmpty(t *testing.T) {
	st := NewJSON(filepath.Join(t.TempDir(), "results.json"))

	records, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)

	ok, err := st.Exists(context.Background(), sampleRecord(0).Key())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "results.json")
	st := NewJSON(path)

	require.NoError(t, st.Append(ctx, sampleRecord(0)))
	require.NoError(t, st.Append(ctx, sampleRecord(50)))

	records, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, sampleRecord(0), records[0])
	assert.Equal(t, sampleRecord(50), records[1])

	ok, err := st.Exists(ctx, sampleRecord(50).Key())
	require.NoError(t, err)
	assert.True(t, ok)

	// The file is a plain JSON array readable by other tools.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('['), data[0])

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONStore_AppendDuplicate(t *testing.T) {
	ctx := context.Background()
	st := NewJSON(filepath.Join(t.TempDir(), "results.json"))

	require.NoError(t, st.Append(ctx, sampleRecord(0)))
	dup := sampleRecord(0)
	dup.Score = 1
	err := st.Append(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))

	records, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 10, records[0].Score)
}

func TestJSONStore_ReadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	legacy := `[{"model": "gpt-4-1106-preview", "context_length": 1000, "depth_percent": 0, "needle": "n", "model_response": "r", "score": 10}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	st := NewJSON(path)
	ok, err := st.Exists(context.Background(), Key{Model: "gpt-4-1106-preview", ContextLength: 1000, DepthPercent: 0, Version: 1})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st := NewJSON(path)
	_, err := st.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json store: decode")

	err = st.Append(context.Background(), sampleRecord(0))
	require.Error(t, err)
}

func TestJSONStore_NullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	records, err := NewJSON(path).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJSONStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJSON(filepath.Join(t.TempDir(), "results.json")).List(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestJSONStore_AppendCreatesParentsAndLeavesNoTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs", "gpt4")
	st := NewJSON(filepath.Join(dir, "results.json"))

	require.NoError(t, st.Append(context.Background(), sampleRecord(0)))
	require.NoError(t, st.Append(context.Background(), sampleRecord(50)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "results.json", entries[0].Name())

	records, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJSONStore_AppendParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	err := NewJSON(filepath.Join(parent, "results.json")).Append(context.Background(), sampleRecord(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json store")
}
