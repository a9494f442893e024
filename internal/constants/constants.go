// Package constants centralizes heapherd's default timeouts, standard file
// names, and artifact naming patterns.
package constants

import (
	"fmt"
	"time"
)

// Default invocation ceilings and lifecycle waits.
const (
	// CompileTimeout bounds one javac invocation.
	CompileTimeout = 30 * time.Second

	// DumpTimeout bounds one jmap heap-dump invocation.
	DumpTimeout = 60 * time.Second

	// HistogramTimeout bounds one jmap -histo invocation.
	HistogramTimeout = 30 * time.Second

	// StabilizeWait is how long a launched JVM gets to warm up and
	// allocate before capture is attempted.
	StabilizeWait = 10 * time.Second

	// TermGracePeriod is the wait after SIGTERM before escalating.
	TermGracePeriod = 5 * time.Second

	// KillWaitPeriod is the wait after SIGKILL before giving up.
	KillWaitPeriod = 2 * time.Second
)

// Standard file names.
const (
	// BuildCacheFile lives in the programs directory.
	BuildCacheFile = ".heapherd_buildcache.json"

	// LedgerFile is the persisted run ledger in the output directory.
	LedgerFile = "results.json"

	// RunLogFile is the append-only supervisor log in the output directory.
	RunLogFile = "heapherd.log"

	// ConfigFile is the optional TOML configuration file.
	ConfigFile = "heapherd.toml"
)

// DumpTimestampLayout stamps dump artifact names, e.g. 20250314_092653.
const DumpTimestampLayout = "20060102_150405"

// DumpArtifactName returns the compressed heap dump file name for a target.
func DumpArtifactName(name string, pid int, ts time.Time) string {
	return fmt.Sprintf("%s_%d_%s.hprof.gz", name, pid, ts.Format(DumpTimestampLayout))
}

// RawDumpArtifactName returns the uncompressed dump file name. The raw file
// only exists between capture and compression.
func RawDumpArtifactName(name string, pid int, ts time.Time) string {
	return fmt.Sprintf("%s_%d_%s.hprof", name, pid, ts.Format(DumpTimestampLayout))
}

// HistogramArtifactName returns the object histogram file name for a target.
func HistogramArtifactName(name string, pid int) string {
	return fmt.Sprintf("%s_%d_histogram.txt", name, pid)
}

// ArtifactGlobs returns the glob patterns matching every artifact a prior
// run may have left for the named target.
func ArtifactGlobs(name string) []string {
	return []string{
		name + "_*.hprof",
		name + "_*.hprof.gz",
		name + "_*_histogram.txt",
	}
}
