package compile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanClassFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Foo.class", "Foo$Inner.class", "Bar.class"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{0xCA, 0xFE}, 0644))
	}
	keep := filepath.Join(dir, "Foo.java")
	require.NoError(t, os.WriteFile(keep, []byte("public class Foo {}"), 0644))

	removed := CleanClassFiles(dir)

	assert.Equal(t, 3, removed)
	assert.FileExists(t, keep)
	leftover, err := filepath.Glob(filepath.Join(dir, "*.class"))
	require.NoError(t, err)
	assert.Empty(t, leftover)
}

func TestCleanClassFilesEmptyDir(t *testing.T) {
	assert.Equal(t, 0, CleanClassFiles(t.TempDir()))
}
