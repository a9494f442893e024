// Package discover enumerates candidate Java programs and pulls a
// human-readable description out of their leading comments. Extraction is
// best-effort text scraping with no correctness contract beyond "plausible".
package discover

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Target is one capture candidate: a logical name plus its source path.
type Target struct {
	Name        string
	Path        string
	Description string
}

// Targets lists the .java files in dir as capture targets, sorted by name.
// The logical name is the file stem, which for well-formed test programs
// matches the public class.
func Targets(dir string) ([]Target, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.java"))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}
	sort.Strings(matches)

	targets := make([]Target, 0, len(matches))
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".java")
		desc := Description(path)
		if desc == "" {
			desc = "Test case: " + name
		}
		targets = append(targets, Target{Name: name, Path: path, Description: desc})
	}
	return targets, nil
}

// ClassName extracts the public class name from a Java source file,
// falling back to the file stem when no declaration is found.
func ClassName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), ".java")

	f, err := os.Open(path)
	if err != nil {
		return stem
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "public class")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("public class"):])
		if brace := strings.Index(rest, "{"); brace >= 0 {
			rest = rest[:brace]
		}
		// Drop extends/implements clauses.
		if sp := strings.IndexAny(rest, " \t"); sp >= 0 {
			rest = rest[:sp]
		}
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return rest
		}
	}
	return stem
}

// Description returns the first meaningful line of the file's leading
// javadoc comment, or the first line comment if there is no javadoc.
// Returns "" when nothing usable is found.
func Description(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	content := string(data)

	if start := strings.Index(content, "/**"); start >= 0 {
		if end := strings.Index(content[start:], "*/"); end >= 0 {
			comment := content[start : start+end]
			for _, line := range strings.Split(comment, "\n")[1:] {
				line = strings.TrimSpace(line)
				line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
				if line != "" && !strings.HasPrefix(line, "*") {
					return line
				}
			}
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			if desc := strings.TrimSpace(line[idx+2:]); desc != "" {
				return desc
			}
		}
	}
	return ""
}
