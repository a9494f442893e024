package doctor

import (
	"fmt"
	"os/exec"
)

// ToolCheck verifies that a JDK executable is installed and on PATH.
// All three tools (javac, java, jmap) are required: a missing one aborts
// a run before any work starts.
type ToolCheck struct {
	BaseCheck
	tool string
}

// NewToolCheck creates a PATH-presence check for the given executable.
func NewToolCheck(tool, description string, required bool) *ToolCheck {
	return &ToolCheck{
		BaseCheck: BaseCheck{
			CheckName:        tool + "-binary",
			CheckDescription: description,
			CheckRequired:    required,
		},
		tool: tool,
	}
}

// Run checks whether the tool resolves on PATH.
func (c *ToolCheck) Run(ctx *CheckContext) *CheckResult {
	path, err := exec.LookPath(c.tool)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: c.tool + " not found in PATH",
			FixHint: "Install a JDK (not just a JRE) and ensure its bin directory is on PATH",
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("found at %s", path),
	}
}
