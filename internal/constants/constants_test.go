package constants

import (
	"testing"
	"time"
)

func TestDumpArtifactName(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got := DumpArtifactName("MemoryLeakTest", 4242, ts)
	want := "MemoryLeakTest_4242_20250314_092653.hprof.gz"
	if got != want {
		t.Errorf("DumpArtifactName = %q, want %q", got, want)
	}
}

func TestRawDumpArtifactName(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got := RawDumpArtifactName("MemoryLeakTest", 4242, ts)
	want := "MemoryLeakTest_4242_20250314_092653.hprof"
	if got != want {
		t.Errorf("RawDumpArtifactName = %q, want %q", got, want)
	}
}

func TestHistogramArtifactName(t *testing.T) {
	got := HistogramArtifactName("ArrayTest", 17)
	want := "ArrayTest_17_histogram.txt"
	if got != want {
		t.Errorf("HistogramArtifactName = %q, want %q", got, want)
	}
}

func TestArtifactGlobs(t *testing.T) {
	globs := ArtifactGlobs("ArrayTest")
	expected := []string{
		"ArrayTest_*.hprof",
		"ArrayTest_*.hprof.gz",
		"ArrayTest_*_histogram.txt",
	}
	if len(globs) != len(expected) {
		t.Fatalf("ArtifactGlobs returned %d patterns, want %d", len(globs), len(expected))
	}
	for i, g := range globs {
		if g != expected[i] {
			t.Errorf("ArtifactGlobs[%d] = %q, want %q", i, g, expected[i])
		}
	}
}
