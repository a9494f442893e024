//go:build !windows

package proc

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup makes the spawned process the leader of a new process
// group, so signals to -pid reach any children it forks.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroupTerm sends SIGTERM to the whole process group.
func signalGroupTerm(pid int) error {
	return unix.Kill(-pid, unix.SIGTERM)
}

// signalGroupKill sends SIGKILL to the whole process group.
func signalGroupKill(pid int) error {
	return unix.Kill(-pid, unix.SIGKILL)
}
