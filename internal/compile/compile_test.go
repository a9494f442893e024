package compile

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hproftools/heapherd/internal/buildcache"
)

// fakeJavac writes a shell script that emulates javac by creating the
// expected .class file next to the source (or failing, per behavior).
func fakeJavac(t *testing.T, behavior string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts require a POSIX shell")
	}

	var script string
	switch behavior {
	case "ok":
		script = `#!/bin/sh
src="$1"
touch "${src%.java}.class"
exit 0
`
	case "fail":
		script = `#!/bin/sh
echo "error: ';' expected" >&2
exit 1
`
	default:
		t.Fatalf("unknown behavior %q", behavior)
	}

	path := filepath.Join(t.TempDir(), "javac")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newCompiler(t *testing.T, dir, behavior string) *Compiler {
	t.Helper()
	c := New(buildcache.New(dir), testLogger())
	c.Javac = fakeJavac(t, behavior)
	return c
}

func writeSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".java")
	require.NoError(t, os.WriteFile(path, []byte("public class "+name+" {}\n"), 0644))
	return path
}

func TestBuildCompilesAndCaches(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "ArrayTest")
	c := newCompiler(t, dir, "ok")

	skipped, err := c.Build("ArrayTest", src)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.FileExists(t, filepath.Join(dir, "ArrayTest.class"))

	// Second build with nothing changed is an explicit skip.
	skipped, err = c.Build("ArrayTest", src)
	require.NoError(t, err)
	assert.True(t, skipped)
}

func TestBuildRebuildsOnSourceChange(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "ArrayTest")
	c := newCompiler(t, dir, "ok")

	_, err := c.Build("ArrayTest", src)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("public class ArrayTest { int x; }\n"), 0644))

	skipped, err := c.Build("ArrayTest", src)
	require.NoError(t, err)
	assert.False(t, skipped)
}

func TestBuildRebuildsWhenClassFileDeleted(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "ArrayTest")
	c := newCompiler(t, dir, "ok")

	_, err := c.Build("ArrayTest", src)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "ArrayTest.class")))

	skipped, err := c.Build("ArrayTest", src)
	require.NoError(t, err)
	assert.False(t, skipped)
}

func TestBuildFailureCarriesStderr(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Broken")
	c := newCompiler(t, dir, "fail")

	_, err := c.Build("Broken", src)
	require.Error(t, err)

	var buildErr *Error
	require.True(t, errors.As(err, &buildErr))
	assert.Contains(t, buildErr.Stderr, "';' expected")

	// A failed compile must not be recorded as fresh.
	ok := newCompiler(t, dir, "ok")
	skipped, err := ok.Build("Broken", src)
	require.NoError(t, err)
	assert.False(t, skipped)
}

func TestBuildMissingSource(t *testing.T) {
	dir := t.TempDir()
	c := New(buildcache.New(dir), testLogger())
	// Deliberately no fake tool: the error must surface before any spawn.
	c.Javac = filepath.Join(dir, "does-not-exist")

	_, err := c.Build("Ghost", filepath.Join(dir, "Ghost.java"))
	require.Error(t, err)

	var buildErr *Error
	require.True(t, errors.As(err, &buildErr))
	assert.Contains(t, buildErr.Error(), "source not found")
}

func TestClassPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Sample.java")
	require.NoError(t, os.WriteFile(src, []byte("public class Sample {}\n"), 0644))

	assert.Equal(t, filepath.Join(dir, "Sample.class"), ClassPath(src))
}
