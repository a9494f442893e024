// Package compile invokes javac on capture targets, skipping sources the
// build cache proves unchanged.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hproftools/heapherd/internal/buildcache"
	"github.com/hproftools/heapherd/internal/constants"
	"github.com/hproftools/heapherd/internal/discover"
)

// Error is a compile failure for one target, carrying the tool's stderr.
type Error struct {
	Name   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("compiling %s: %v: %s", e.Name, e.Err, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("compiling %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Compiler runs javac with a bounded timeout and records successes in the
// build cache.
type Compiler struct {
	// Javac is the compiler executable; defaults to "javac" on PATH.
	Javac string

	// Timeout bounds one javac invocation.
	Timeout time.Duration

	Cache  *buildcache.Cache
	Logger *log.Logger
}

// New returns a Compiler with standard tool and timeout settings.
func New(cache *buildcache.Cache, logger *log.Logger) *Compiler {
	return &Compiler{
		Javac:   "javac",
		Timeout: constants.CompileTimeout,
		Cache:   cache,
		Logger:  logger,
	}
}

// ClassPath returns the expected compiled output for a source file.
func ClassPath(srcPath string) string {
	return filepath.Join(filepath.Dir(srcPath), discover.ClassName(srcPath)+".class")
}

// Build compiles the target named name at srcPath unless the cache proves
// it unchanged and its class file still exists. Returns skipped=true for an
// explicit cache hit. A missing source is reported before any subprocess
// is spawned.
func (c *Compiler) Build(name, srcPath string) (skipped bool, err error) {
	if _, statErr := os.Stat(srcPath); statErr != nil {
		return false, &Error{Name: name, Err: fmt.Errorf("source not found: %w", statErr)}
	}

	classPath := ClassPath(srcPath)

	stale, err := c.Cache.IsBuildStale(name, srcPath, classPath)
	if err != nil {
		return false, &Error{Name: name, Err: err}
	}
	if !stale {
		c.Logger.Printf("Skipping compile of %s (already compiled)", name)
		return true, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Javac, srcPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.Logger.Printf("Compiling %s", name)
	if runErr := cmd.Run(); runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, &Error{Name: name, Stderr: stderr.String(),
				Err: fmt.Errorf("javac timed out after %s", c.Timeout)}
		}
		return false, &Error{Name: name, Stderr: stderr.String(), Err: runErr}
	}

	// The cache update must be durable before we report success, so a
	// crash right after a compile cannot leave "built but uncached" state.
	if err := c.Cache.RecordSuccess(name, srcPath); err != nil {
		return false, &Error{Name: name, Err: err}
	}

	return false, nil
}
