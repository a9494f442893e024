// Package proc supervises managed JVM processes from spawn to confirmed
// termination. Each process is launched as the leader of a new process
// group so helper children it forks are torn down with it, and shutdown
// escalates SIGTERM → SIGKILL against the whole group with bounded waits.
package proc

import (
	"bytes"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// State tracks a managed process through its lifecycle.
type State int

const (
	NotStarted State = iota
	Starting
	Live
	Failed
	Terminating
	Terminated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Starting:
		return "starting"
	case Live:
		return "live"
	case Failed:
		return "failed"
	case Terminating:
		return "terminating"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// SpawnFailure reports a process that exited before stabilizing, with its
// buffered output for diagnostics.
type SpawnFailure struct {
	Name   string
	Stdout string
	Stderr string
}

func (e *SpawnFailure) Error() string {
	msg := fmt.Sprintf("%s exited before stabilizing", e.Name)
	if out := strings.TrimSpace(e.Stderr); out != "" {
		msg += ": " + out
	}
	return msg
}

// Managed is one supervised process. It is owned exclusively by the
// Supervisor that spawned it and must never outlive the run: Terminate is
// guaranteed to be attempted on every exit path.
type Managed struct {
	name string
	cmd  *exec.Cmd
	pid  int

	stdout bytes.Buffer
	stderr bytes.Buffer

	// done is closed by the wait goroutine when the process exits.
	done chan struct{}

	mu    sync.Mutex
	state State
}

// Name returns the logical target name.
func (m *Managed) Name() string { return m.name }

// PID returns the process-group-leader identifier.
func (m *Managed) PID() int { return m.pid }

// State returns the current lifecycle state.
func (m *Managed) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Managed) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// exited reports whether the process has already terminated.
func (m *Managed) exited() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// waitExit blocks until the process exits or the timeout elapses.
// Returns true if the process exited in time.
func (m *Managed) waitExit(timeout time.Duration) bool {
	select {
	case <-m.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Supervisor owns every process spawned during one orchestration pass.
// There is no ambient global registry: callers hold the Supervisor and the
// Managed handles it returns.
type Supervisor struct {
	logger *log.Logger

	mu    sync.Mutex
	procs []*Managed
}

// NewSupervisor returns a supervisor logging lifecycle events to logger.
func NewSupervisor(logger *log.Logger) *Supervisor {
	return &Supervisor{logger: logger}
}

// Spawn launches executable as the leader of a new process group and
// registers it with the supervisor. The process starts in Starting state;
// callers must follow up with AwaitStable.
func (s *Supervisor) Spawn(name, executable string, args ...string) (*Managed, error) {
	cmd := exec.Command(executable, args...)
	setProcessGroup(cmd)

	m := &Managed{
		name:  name,
		cmd:   cmd,
		done:  make(chan struct{}),
		state: NotStarted,
	}
	cmd.Stdout = &m.stdout
	cmd.Stderr = &m.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}
	m.pid = cmd.Process.Pid
	m.setState(Starting)

	go func() {
		_ = cmd.Wait()
		close(m.done)
	}()

	s.mu.Lock()
	s.procs = append(s.procs, m)
	s.mu.Unlock()

	s.logger.Printf("Started %s (PID %d)", name, m.pid)
	return m, nil
}

// AwaitStable blocks for minWait and then verifies the process is still
// alive. If it already exited, the buffered output is surfaced in a
// SpawnFailure and the state becomes Failed; otherwise the process is Live.
func (s *Supervisor) AwaitStable(m *Managed, minWait time.Duration) error {
	m.waitExit(minWait)

	if m.exited() {
		m.setState(Failed)
		s.logger.Printf("%s (PID %d) exited before stabilizing", m.name, m.pid)
		return &SpawnFailure{
			Name:   m.name,
			Stdout: m.stdout.String(),
			Stderr: m.stderr.String(),
		}
	}

	m.setState(Live)
	return nil
}

// Terminate shuts down the process group with escalation: SIGTERM, wait up
// to grace; SIGKILL, wait up to kill. It never returns an error; shutdown
// runs on every exit path, including error recovery, so failures are logged
// and swallowed. Calling it on an already-terminated or never-started
// process is a no-op.
func (s *Supervisor) Terminate(m *Managed, grace, kill time.Duration) {
	if m == nil || m.pid == 0 {
		return
	}

	m.mu.Lock()
	if m.state == Terminated || m.state == Terminating {
		m.mu.Unlock()
		return
	}
	alreadyDead := m.state == Failed
	m.state = Terminating
	m.mu.Unlock()

	defer m.setState(Terminated)

	if alreadyDead || m.exited() {
		return
	}

	s.logger.Printf("Terminating %s (PID %d)", m.name, m.pid)
	if err := signalGroupTerm(m.pid); err != nil {
		s.logger.Printf("Warning: SIGTERM to group %d failed: %v", m.pid, err)
	}
	if m.waitExit(grace) {
		return
	}

	s.logger.Printf("%s (PID %d) still alive after %s, forcing kill", m.name, m.pid, grace)
	if err := signalGroupKill(m.pid); err != nil {
		s.logger.Printf("Warning: SIGKILL to group %d failed: %v", m.pid, err)
	}
	if !m.waitExit(kill) {
		// A process that refuses to die must not crash the run; the
		// operating system's cleanup is the backstop.
		s.logger.Printf("Warning: %s (PID %d) did not exit after SIGKILL", m.name, m.pid)
	}
}

// TerminateAll tears down every process the supervisor still owns.
func (s *Supervisor) TerminateAll(grace, kill time.Duration) {
	s.mu.Lock()
	procs := make([]*Managed, len(s.procs))
	copy(procs, s.procs)
	s.mu.Unlock()

	for _, m := range procs {
		s.Terminate(m, grace, kill)
	}
}
