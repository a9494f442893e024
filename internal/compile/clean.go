package compile

import (
	"os"
	"path/filepath"
)

// CleanClassFiles removes compiled .class files (including inner classes
// like Foo$Bar.class) from dir. Best-effort: individual failures are
// skipped. Returns the number of files removed.
func CleanClassFiles(dir string) int {
	removed := 0
	matches, err := filepath.Glob(filepath.Join(dir, "*.class"))
	if err != nil {
		return 0
	}
	for _, path := range matches {
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed
}
