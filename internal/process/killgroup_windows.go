//go:build windows

package process

import (
	"os"
	"time"
)

// DefaultGracePeriod is how long KillGroup waits after the interrupt.
const DefaultGracePeriod = 200 * time.Millisecond

// KillGroup interrupts pid and kills it after grace. Windows has no process
// groups, so children may survive.
func KillGroup(pid int, grace time.Duration) error {
	if pid <= 0 {
		return nil
	}
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	_ = proc.Signal(os.Interrupt)
	time.Sleep(grace)
	return proc.Kill()
}
