package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/churneda-cli/internal/utils"
)

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, utils.SafeWriteFile(p, []byte("one")))
	require.NoError(t, utils.SafeWriteFile(p, []byte("two")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.png", "a.PNG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	got, err := utils.ListFiles(dir, ".png")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.PNG", "b.png"}, got)

	got, err = utils.ListFiles(filepath.Join(dir, "missing"), ".png")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/reports")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reports"), got)

	got, err = utils.ExpandHome("reports")
	require.NoError(t, err)
	assert.Equal(t, "reports", got)
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"rows\": 2\n}", string(b))
}
