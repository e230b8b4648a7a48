//go:build !windows

package process

import (
	"errors"
	"syscall"
	"time"
)

// DefaultGracePeriod is how long KillGroup waits after SIGTERM.
const DefaultGracePeriod = 200 * time.Millisecond

// KillGroup terminates the process group led by pid: SIGTERM first, then
// SIGKILL for anything still alive after grace. A group that is already gone
// is not an error.
func KillGroup(pid int, grace time.Duration) error {
	if pid <= 0 {
		return nil
	}
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	pgid, err := syscall.Getpgid(pid)
	if err != nil {
		return ignoreGone(err)
	}
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
		return ignoreGone(err)
	}

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if errors.Is(syscall.Kill(-pgid, 0), syscall.ESRCH) {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	// EPERM can occur if the group emptied during the grace period.
	if err := syscall.Kill(-pgid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.EPERM) {
		return ignoreGone(err)
	}
	return nil
}

func ignoreGone(err error) error {
	if errors.Is(err, syscall.ESRCH) || errors.Is(err, syscall.ECHILD) {
		return nil
	}
	return err
}
