package results

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_JSONDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	st, err := Open(context.Background(), Config{Path: path})
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	js, ok := st.(*JSONStore)
	require.True(t, ok)
	assert.Equal(t, path, js.Path())
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "results.db")})
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	require.NoError(t, st.Append(context.Background(), sampleRecord(0)))
	ok, err := st.Exists(context.Background(), sampleRecord(0).Key())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url is required")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}
