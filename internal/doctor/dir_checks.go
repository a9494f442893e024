package doctor

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProgramsDirCheck verifies the programs directory exists and contains at
// least one candidate source. An empty directory is a warning, not an
// error: the run would just do nothing.
type ProgramsDirCheck struct {
	BaseCheck
}

// NewProgramsDirCheck creates the programs directory check.
func NewProgramsDirCheck() *ProgramsDirCheck {
	return &ProgramsDirCheck{
		BaseCheck: BaseCheck{
			CheckName:        "programs-dir",
			CheckDescription: "Programs directory exists and contains .java sources",
		},
	}
}

// Run inspects the programs directory.
func (c *ProgramsDirCheck) Run(ctx *CheckContext) *CheckResult {
	info, err := os.Stat(ctx.ProgramsDir)
	if err != nil || !info.IsDir() {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("%s does not exist", ctx.ProgramsDir),
			FixHint: "Create it and add .java test programs, or point --dir elsewhere",
		}
	}

	matches, _ := filepath.Glob(filepath.Join(ctx.ProgramsDir, "*.java"))
	if len(matches) == 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("no .java files in %s", ctx.ProgramsDir),
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%d candidate program(s)", len(matches)),
	}
}

// OutputDirCheck verifies the output directory is writable, creating it if
// needed. Dumps are large and discovering an unwritable destination after
// a capture would waste the whole run.
type OutputDirCheck struct {
	BaseCheck
}

// NewOutputDirCheck creates the output directory check.
func NewOutputDirCheck() *OutputDirCheck {
	return &OutputDirCheck{
		BaseCheck: BaseCheck{
			CheckName:        "output-dir",
			CheckDescription: "Output directory is writable",
			CheckRequired:    true,
		},
	}
}

// Run probes the output directory with a throwaway file.
func (c *OutputDirCheck) Run(ctx *CheckContext) *CheckResult {
	if err := os.MkdirAll(ctx.OutputDir, 0755); err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("cannot create %s: %v", ctx.OutputDir, err),
		}
	}

	probe := filepath.Join(ctx.OutputDir, ".heapherd_probe")
	if err := os.WriteFile(probe, []byte("probe"), 0644); err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("cannot write to %s: %v", ctx.OutputDir, err),
		}
	}
	os.Remove(probe)

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: ctx.OutputDir,
	}
}
