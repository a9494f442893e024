//go:build windows

package proc

import (
	"os"
	"os/exec"
)

// setProcessGroup is a no-op on Windows; the process runs independently.
func setProcessGroup(cmd *exec.Cmd) {}

// signalGroupTerm has no SIGTERM equivalent on Windows; kill directly.
func signalGroupTerm(pid int) error {
	return killPid(pid)
}

// signalGroupKill kills the process by PID.
func signalGroupKill(pid int) error {
	return killPid(pid)
}

func killPid(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
