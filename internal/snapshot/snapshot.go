// Package snapshot captures heap artifacts from live JVMs with jmap: full
// heap dumps (gzip-compressed) and object histograms. Dump and histogram
// captures are independent; one failing never blocks the other.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/hproftools/heapherd/internal/constants"
)

// CaptureError reports a failed snapshot-tool invocation.
type CaptureError struct {
	Name   string
	Mode   string // "dump" or "histogram"
	Stderr string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("capturing %s %s: %v: %s", e.Mode, e.Name, e.Err, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("capturing %s %s: %v", e.Mode, e.Name, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Snapshotter invokes jmap against live processes and materializes
// artifacts in OutputDir.
type Snapshotter struct {
	// Jmap is the snapshot executable; defaults to "jmap" on PATH.
	Jmap string

	DumpTimeout      time.Duration
	HistogramTimeout time.Duration

	OutputDir string
	Logger    *log.Logger

	// Now stamps dump file names; overridable for deterministic tests.
	Now func() time.Time
}

// New returns a Snapshotter with standard tool and timeout settings.
func New(outputDir string, logger *log.Logger) *Snapshotter {
	return &Snapshotter{
		Jmap:             "jmap",
		DumpTimeout:      constants.DumpTimeout,
		HistogramTimeout: constants.HistogramTimeout,
		OutputDir:        outputDir,
		Logger:           logger,
		Now:              time.Now,
	}
}

// CaptureDump invokes jmap in dump mode against pid, compresses the raw
// dump, deletes the raw file, and returns the compressed artifact path.
// The raw file is only deleted after the compressed file is fully written
// and synced. A compression failure removes the partial compressed file
// but leaves the raw dump on disk; the next run's purge handles it.
func (s *Snapshotter) CaptureDump(name string, pid int) (string, error) {
	ts := s.Now()
	rawPath := filepath.Join(s.OutputDir, constants.RawDumpArtifactName(name, pid, ts))
	gzPath := filepath.Join(s.OutputDir, constants.DumpArtifactName(name, pid, ts))

	ctx, cancel := context.WithTimeout(context.Background(), s.DumpTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Jmap, "-dump:live,format=b,file="+rawPath, strconv.Itoa(pid))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	s.Logger.Printf("Capturing heap dump for %s (PID %d)", name, pid)
	if err := cmd.Run(); err != nil {
		os.Remove(rawPath) // drop any partial dump
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("jmap timed out after %s", s.DumpTimeout)
		}
		return "", &CaptureError{Name: name, Mode: "dump", Stderr: stderr.String(), Err: err}
	}

	if _, err := os.Stat(rawPath); err != nil {
		return "", &CaptureError{Name: name, Mode: "dump",
			Err: fmt.Errorf("jmap reported success but wrote no dump file")}
	}

	if err := compressAndRemove(rawPath, gzPath); err != nil {
		return "", &CaptureError{Name: name, Mode: "dump", Err: err}
	}

	return gzPath, nil
}

// compressAndRemove streams src through gzip into dst and removes src.
// src is the only copy of the dump until dst is fully written and synced,
// so failure paths remove the partial dst and never touch src.
func compressAndRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening raw dump: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating compressed dump: %w", err)
	}

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("compressing dump: %w", err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("finalizing compressed dump: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("syncing compressed dump: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("closing compressed dump: %w", err)
	}

	in.Close()
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing raw dump: %w", err)
	}
	return nil
}

// CaptureHistogram invokes jmap -histo against pid and writes the output
// verbatim to the histogram artifact, returning its path.
func (s *Snapshotter) CaptureHistogram(name string, pid int) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.HistogramTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Jmap, "-histo", strconv.Itoa(pid))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.Logger.Printf("Capturing heap histogram for %s (PID %d)", name, pid)
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("jmap timed out after %s", s.HistogramTimeout)
		}
		return "", &CaptureError{Name: name, Mode: "histogram", Stderr: stderr.String(), Err: err}
	}

	path := filepath.Join(s.OutputDir, constants.HistogramArtifactName(name, pid))
	if err := os.WriteFile(path, stdout.Bytes(), 0644); err != nil {
		return "", &CaptureError{Name: name, Mode: "histogram", Err: err}
	}
	return path, nil
}

// PurgePrior removes artifacts from earlier runs of the same target so
// reruns don't accumulate stale dumps. Individual delete failures are
// logged and skipped. Returns the number of files removed.
func (s *Snapshotter) PurgePrior(name string) int {
	removed := 0
	for _, pattern := range constants.ArtifactGlobs(name) {
		matches, err := filepath.Glob(filepath.Join(s.OutputDir, pattern))
		if err != nil {
			continue
		}
		for _, path := range matches {
			if err := os.Remove(path); err != nil {
				s.Logger.Printf("Warning: removing stale artifact %s: %v", path, err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		s.Logger.Printf("Removed %d previous artifact(s) for %s", removed, name)
	}
	return removed
}
