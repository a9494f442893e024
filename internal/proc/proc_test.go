//go:build !windows

package proc

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/sys/unix"
)

func newSupervisor() *Supervisor {
	return NewSupervisor(log.New(io.Discard, "", 0))
}

func TestSpawnAndAwaitStable(t *testing.T) {
	s := newSupervisor()

	m, err := s.Spawn("sleeper", "sleep", "60")
	require.NoError(t, err)
	require.NotZero(t, m.PID())
	assert.Equal(t, Starting, m.State())

	require.NoError(t, s.AwaitStable(m, 50*time.Millisecond))
	assert.Equal(t, Live, m.State())

	s.Terminate(m, time.Second, time.Second)
	assert.Equal(t, Terminated, m.State())
}

func TestAwaitStableDetectsEarlyExit(t *testing.T) {
	s := newSupervisor()

	m, err := s.Spawn("crasher", "sh", "-c", "echo oops >&2; exit 3")
	require.NoError(t, err)

	err = s.AwaitStable(m, 200*time.Millisecond)
	require.Error(t, err)

	var sf *SpawnFailure
	require.True(t, errors.As(err, &sf))
	assert.Contains(t, sf.Stderr, "oops")
	assert.Equal(t, Failed, m.State())
}

func TestSpawnBadExecutable(t *testing.T) {
	s := newSupervisor()
	_, err := s.Spawn("ghost", "/nonexistent/binary")
	assert.Error(t, err)
}

func TestTerminateKillsProcessGroup(t *testing.T) {
	s := newSupervisor()

	// The shell forks a child; both share the process group.
	m, err := s.Spawn("family", "sh", "-c", "sleep 60 & wait")
	require.NoError(t, err)
	require.NoError(t, s.AwaitStable(m, 100*time.Millisecond))

	pgid, err := unix.Getpgid(m.PID())
	require.NoError(t, err)
	require.Equal(t, m.PID(), pgid, "spawned process should lead its own group")

	s.Terminate(m, 2*time.Second, time.Second)

	// Signal 0 probes for any surviving member of the group.
	assert.Eventually(t, func() bool {
		return unix.Kill(-pgid, 0) != nil
	}, 3*time.Second, 50*time.Millisecond, "process group should be gone")
}

func TestTerminateEscalatesToKill(t *testing.T) {
	s := newSupervisor()

	// Trap and ignore SIGTERM so only SIGKILL can end it.
	m, err := s.Spawn("stubborn", "sh", "-c", "trap '' TERM; sleep 60")
	require.NoError(t, err)
	require.NoError(t, s.AwaitStable(m, 100*time.Millisecond))

	start := time.Now()
	s.Terminate(m, 300*time.Millisecond, 2*time.Second)
	elapsed := time.Since(start)

	assert.True(t, m.exited(), "process should be dead after escalation")
	assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond, "should have waited out the grace period")
}

func TestTerminateIdempotent(t *testing.T) {
	s := newSupervisor()

	m, err := s.Spawn("once", "sleep", "60")
	require.NoError(t, err)
	require.NoError(t, s.AwaitStable(m, 50*time.Millisecond))

	s.Terminate(m, time.Second, time.Second)
	// Second and third calls must be harmless no-ops.
	s.Terminate(m, time.Second, time.Second)
	s.Terminate(m, time.Second, time.Second)
	assert.Equal(t, Terminated, m.State())
}

func TestTerminateAlreadyExited(t *testing.T) {
	s := newSupervisor()

	m, err := s.Spawn("quick", "true")
	require.NoError(t, err)
	_ = s.AwaitStable(m, 200*time.Millisecond)

	// Must not panic or block on a process that already exited.
	s.Terminate(m, time.Second, time.Second)
	assert.Equal(t, Terminated, m.State())
}

func TestTerminateNil(t *testing.T) {
	s := newSupervisor()
	s.Terminate(nil, time.Second, time.Second)
}

func TestTerminateAll(t *testing.T) {
	s := newSupervisor()

	first, err := s.Spawn("one", "sleep", "60")
	require.NoError(t, err)
	second, err := s.Spawn("two", "sleep", "60")
	require.NoError(t, err)
	require.NoError(t, s.AwaitStable(first, 50*time.Millisecond))
	require.NoError(t, s.AwaitStable(second, 50*time.Millisecond))

	s.TerminateAll(time.Second, time.Second)

	assert.Equal(t, Terminated, first.State())
	assert.Equal(t, Terminated, second.State())
	assert.True(t, first.exited())
	assert.True(t, second.exited())
}
