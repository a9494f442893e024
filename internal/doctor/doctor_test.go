package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolCheckFound(t *testing.T) {
	// sh is present on every platform these tests run on.
	check := NewToolCheck("sh", "shell", true)
	result := check.Run(&CheckContext{})

	assert.Equal(t, StatusOK, result.Status)
	assert.Contains(t, result.Message, "found at")
}

func TestToolCheckMissing(t *testing.T) {
	check := NewToolCheck("definitely-not-a-real-tool-9f3a", "nope", true)
	result := check.Run(&CheckContext{})

	assert.Equal(t, StatusError, result.Status)
	assert.NotEmpty(t, result.FixHint)
}

func TestProgramsDirCheck(t *testing.T) {
	t.Run("missing dir warns", func(t *testing.T) {
		ctx := &CheckContext{ProgramsDir: filepath.Join(t.TempDir(), "nope")}
		result := NewProgramsDirCheck().Run(ctx)
		assert.Equal(t, StatusWarning, result.Status)
	})

	t.Run("empty dir warns", func(t *testing.T) {
		ctx := &CheckContext{ProgramsDir: t.TempDir()}
		result := NewProgramsDirCheck().Run(ctx)
		assert.Equal(t, StatusWarning, result.Status)
	})

	t.Run("dir with sources passes", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "A.java"), []byte("public class A {}"), 0644))
		result := NewProgramsDirCheck().Run(&CheckContext{ProgramsDir: dir})
		assert.Equal(t, StatusOK, result.Status)
		assert.Contains(t, result.Message, "1 candidate")
	})
}

func TestOutputDirCheckCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	result := NewOutputDirCheck().Run(&CheckContext{OutputDir: dir})

	assert.Equal(t, StatusOK, result.Status)
	assert.DirExists(t, dir)
}

func TestDoctorRunAggregates(t *testing.T) {
	d := New()
	d.Register(
		NewToolCheck("sh", "shell", true),
		NewToolCheck("definitely-not-a-real-tool-9f3a", "nope", true),
	)

	report := d.Run(&CheckContext{})
	assert.Len(t, report.Checks, 2)
	assert.Equal(t, 1, report.Errors)
	assert.True(t, report.HasErrors())
}

func TestRunRequiredSkipsOptional(t *testing.T) {
	d := New()
	d.Register(
		NewToolCheck("sh", "shell", true),
		NewProgramsDirCheck(), // optional
	)

	report := d.RunRequired(&CheckContext{ProgramsDir: filepath.Join(t.TempDir(), "nope")})
	assert.Len(t, report.Checks, 1)
	assert.False(t, report.HasErrors())
}

func TestDefaultRegistersStandardChecks(t *testing.T) {
	d := Default()
	names := make([]string, 0, len(d.Checks()))
	for _, c := range d.Checks() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "javac-binary")
	assert.Contains(t, names, "java-binary")
	assert.Contains(t, names, "jmap-binary")
	assert.Contains(t, names, "output-dir")
}
