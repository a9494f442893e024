package ledger

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hproftools/heapherd/internal/compile"
	"github.com/hproftools/heapherd/internal/discover"
	"github.com/hproftools/heapherd/internal/fingerprint"
	"github.com/hproftools/heapherd/internal/proc"
	"github.com/hproftools/heapherd/internal/snapshot"
)

// Runner drives the full pipeline for each target:
// build → spawn → stabilize → capture dump → capture histogram → terminate.
// Targets are processed strictly sequentially; concurrent captures would
// skew the measured heap state of their neighbors.
type Runner struct {
	Compiler    *compile.Compiler
	Supervisor  *proc.Supervisor
	Snapshotter *snapshot.Snapshotter
	Store       *Store

	// Java is the runtime launcher executable; defaults to "java" on PATH.
	Java string

	// ProgramsDir is passed to the JVM as the classpath.
	ProgramsDir string

	// JVMFlags are extra launcher options appended after the diagnostic
	// defaults, passed through untouched.
	JVMFlags []string

	StabilizeWait time.Duration
	GracePeriod   time.Duration
	KillPeriod    time.Duration

	Logger *log.Logger
}

// diagnosticFlags enable non-safepoint debug info in the target JVM so the
// captured dumps carry usable frame detail.
var diagnosticFlags = []string{
	"-XX:+UnlockDiagnosticVMOptions",
	"-XX:+DebugNonSafepoints",
}

// launchArgs builds the java argument list for a target class.
func (r *Runner) launchArgs(className string) []string {
	args := []string{"-cp", r.ProgramsDir}
	args = append(args, diagnosticFlags...)
	args = append(args, r.JVMFlags...)
	return append(args, className)
}

// RunOne executes the pipeline for a single target and returns its record.
// Termination of the managed process is guaranteed before RunOne returns,
// whichever step failed: the terminate runs on a deferred path.
func (r *Runner) RunOne(target discover.Target) RunRecord {
	rec := RunRecord{
		Name:       target.Name,
		SourcePath: target.Path,
		Status:     StatusFailed,
	}

	fp, err := fingerprint.File(target.Path)
	if err != nil {
		r.Logger.Printf("Error fingerprinting %s: %v", target.Name, err)
		return rec
	}
	rec.SourceFingerprint = fp

	if _, err := r.Compiler.Build(target.Name, target.Path); err != nil {
		r.Logger.Printf("Error: %v", err)
		return rec
	}

	r.Snapshotter.PurgePrior(target.Name)

	className := discover.ClassName(target.Path)
	m, err := r.Supervisor.Spawn(target.Name, r.Java, r.launchArgs(className)...)
	if err != nil {
		r.Logger.Printf("Error launching %s: %v", target.Name, err)
		return rec
	}
	defer r.Supervisor.Terminate(m, r.GracePeriod, r.KillPeriod)

	if err := r.Supervisor.AwaitStable(m, r.StabilizeWait); err != nil {
		// Exited inside the stabilization window: no PID is recorded and
		// no capture is attempted.
		r.Logger.Printf("Error: %v", err)
		return rec
	}
	rec.PID = m.PID()

	dumpPath, dumpErr := r.Snapshotter.CaptureDump(target.Name, m.PID())
	if dumpErr != nil {
		r.Logger.Printf("Error: %v", dumpErr)
	}

	// Histogram capture is independent of the dump; a dump failure must
	// not block it.
	histPath, histErr := r.Snapshotter.CaptureHistogram(target.Name, m.PID())
	if histErr != nil {
		r.Logger.Printf("Error: %v", histErr)
	} else {
		rec.Histogram = histPath
	}

	// Success requires the dump artifact to exist on disk at the moment
	// the record is written.
	if dumpErr == nil {
		if _, err := os.Stat(dumpPath); err == nil {
			rec.HeapDump = dumpPath
			rec.Status = StatusSuccess
			return rec
		}
		r.Logger.Printf("Error: dump for %s vanished before it could be recorded", target.Name)
	}

	if histErr == nil {
		rec.Status = StatusPartial
	}
	return rec
}

// RunAll applies RunOne or a skip-copy per target, sequentially, then
// persists the resulting ledger. Skipped targets carry the previous run's
// record forward unchanged. The observe callback, if non-nil, is invoked
// after each target with its record and whether it was skipped.
func (r *Runner) RunAll(targets []discover.Target, observe func(rec RunRecord, skipped bool)) (*Ledger, error) {
	prev := r.Store.Load()
	result := NewLedger(uuid.NewString(), time.Now())

	for _, target := range targets {
		if ShouldSkip(target.Name, target.Path, prev) {
			rec := prev.Targets[target.Name]
			result.Targets[target.Name] = rec
			r.Logger.Printf("Skipping %s (source unchanged, heap dump exists)", target.Name)
			if observe != nil {
				observe(rec, true)
			}
			continue
		}

		rec := r.RunOne(target)
		result.Targets[target.Name] = rec
		if observe != nil {
			observe(rec, false)
		}
	}

	if err := r.Store.Save(result); err != nil {
		return result, err
	}
	return result, nil
}
