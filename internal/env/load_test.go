package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
SCATTER_TEST_MODEL="assets/cat.glb"
export SCATTER_TEST_COUNT=42
SCATTER_TEST_KEEP=file
=novalue
broken line
`), 0644))
	t.Setenv("SCATTER_TEST_KEEP", "process")
	t.Cleanup(func() {
		os.Unsetenv("SCATTER_TEST_MODEL")
		os.Unsetenv("SCATTER_TEST_COUNT")
	})

	set, err := Load(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"SCATTER_TEST_MODEL", "SCATTER_TEST_COUNT"}, set)
	assert.Equal(t, "assets/cat.glb", os.Getenv("SCATTER_TEST_MODEL"))
	assert.Equal(t, "42", os.Getenv("SCATTER_TEST_COUNT"))
	assert.Equal(t, "process", os.Getenv("SCATTER_TEST_KEEP"))
}

func TestLoadMissingFile(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.NoError(t, err)
	assert.Empty(t, set)
}
