// Package ledger records per-target run outcomes and drives skip decisions.
// The ledger from the previous run is loaded at the start of each pass and
// overwritten at the end; a target whose source and artifacts are intact is
// skipped and its prior record carried forward verbatim.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/hproftools/heapherd/internal/constants"
	"github.com/hproftools/heapherd/internal/fingerprint"
	"github.com/hproftools/heapherd/internal/util"
)

// Status is the outcome of one target in one run.
type Status string

const (
	// StatusSuccess means a heap dump artifact exists at the recorded path.
	StatusSuccess Status = "success"
	// StatusPartial means the process ran but the dump capture failed
	// while the histogram succeeded.
	StatusPartial Status = "partial"
	// StatusFailed means the process never reached a verified-live state,
	// or every capture failed.
	StatusFailed Status = "failed"
)

// RunRecord is the persisted outcome of one target in one run.
type RunRecord struct {
	Name              string `json:"name"`
	SourcePath        string `json:"source_path"`
	SourceFingerprint string `json:"source_fingerprint,omitempty"`
	PID               int    `json:"pid,omitempty"`
	HeapDump          string `json:"heap_dump,omitempty"`
	Histogram         string `json:"histogram,omitempty"`
	Status            Status `json:"status"`
}

// Ledger is the full persisted record of one run.
type Ledger struct {
	RunID     string               `json:"run_id"`
	Timestamp time.Time            `json:"timestamp"`
	Targets   map[string]RunRecord `json:"targets"`
}

// NewLedger returns an empty ledger stamped with the given run identity.
func NewLedger(runID string, ts time.Time) *Ledger {
	return &Ledger{
		RunID:     runID,
		Timestamp: ts,
		Targets:   make(map[string]RunRecord),
	}
}

// Store persists ledgers in the output directory, serialized across
// processes with an advisory flock.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a store backed by the standard ledger file in outputDir.
func NewStore(outputDir string) *Store {
	path := filepath.Join(outputDir, constants.LedgerFile)
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the previous run's ledger. A missing or corrupt file yields an
// empty ledger: every target is then treated as stale, which is always safe.
func (s *Store) Load() *Ledger {
	empty := NewLedger("", time.Time{})

	if err := s.lock.Lock(); err != nil {
		return empty
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return empty
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil || l.Targets == nil {
		return empty
	}
	return &l
}

// Save overwrites the persisted ledger atomically.
func (s *Store) Save(l *Ledger) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking ledger: %w", err)
	}
	defer s.lock.Unlock()

	if err := util.AtomicWriteJSON(s.path, l); err != nil {
		return fmt.Errorf("persisting ledger: %w", err)
	}
	return nil
}

// IsCaptureStale reports whether the target named name at srcPath needs a
// fresh capture. It is stale when the previous ledger has no record, the
// prior run did not succeed, the source fingerprint changed, or the
// recorded dump artifact no longer exists on disk.
func IsCaptureStale(name, srcPath string, prev *Ledger) bool {
	if prev == nil {
		return true
	}
	rec, ok := prev.Targets[name]
	if !ok {
		return true
	}
	if rec.Status != StatusSuccess {
		return true
	}

	current, err := fingerprint.File(srcPath)
	if err != nil || rec.SourceFingerprint != current {
		return true
	}

	if rec.HeapDump == "" {
		return true
	}
	if _, err := os.Stat(rec.HeapDump); err != nil {
		return true
	}
	return false
}

// ShouldSkip is the inverse of IsCaptureStale, named for the caller's intent.
func ShouldSkip(name, srcPath string, prev *Ledger) bool {
	return !IsCaptureStale(name, srcPath, prev)
}
