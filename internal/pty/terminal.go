package pty

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/process"
)

const killGrace = 100 * time.Millisecond

// Command describes a process to run under a pseudo-terminal.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
	Rows uint16
	Cols uint16
}

// Terminal wraps a PTY with an associated command
type Terminal struct {
	mu      sync.Mutex
	ptyFile *os.File
	cmd     *exec.Cmd
	closed  bool

	waitOnce sync.Once
	waitErr  error
}

// Start launches c under a new PTY. Cancelling ctx kills the process.
func Start(ctx context.Context, c Command) (*Terminal, error) {
	if c.Name == "" {
		return nil, errors.New("pty: empty command")
	}
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	var (
		ptmx *os.File
		err  error
	)
	if c.Rows > 0 && c.Cols > 0 {
		ptmx, err = pty.StartWithSize(cmd, &pty.Winsize{Rows: c.Rows, Cols: c.Cols})
	} else {
		ptmx, err = pty.Start(cmd)
	}
	if err != nil {
		return nil, err
	}
	logging.Debug("%s", logging.Fields("op", "pty.Start", "cmd", c.Name, "pid", cmd.Process.Pid))

	return &Terminal{
		ptyFile: ptmx,
		cmd:     cmd,
	}, nil
}

// SetSize sets the terminal size
func (t *Terminal) SetSize(rows, cols uint16) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.ptyFile == nil {
		return nil
	}

	return pty.Setsize(t.ptyFile, &pty.Winsize{
		Rows: rows,
		Cols: cols,
	})
}

// Write sends input to the terminal
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	closed := t.closed
	ptyFile := t.ptyFile
	t.mu.Unlock()

	if closed || ptyFile == nil {
		return 0, io.ErrClosedPipe
	}

	return ptyFile.Write(p)
}

// Read reads output from the terminal. Linux reports EIO once the child side
// has closed; that is surfaced as io.EOF.
// Note: This does NOT hold the mutex during the blocking read to avoid deadlock
func (t *Terminal) Read(p []byte) (int, error) {
	t.mu.Lock()
	closed := t.closed
	ptyFile := t.ptyFile
	t.mu.Unlock()

	if closed || ptyFile == nil {
		return 0, io.EOF
	}

	n, err := ptyFile.Read(p)
	if err != nil && (errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)) {
		err = io.EOF
	}
	return n, err
}

// Wait blocks until the process exits and returns its exit error.
func (t *Terminal) Wait() error {
	t.waitOnce.Do(func() {
		t.waitErr = t.cmd.Wait()
	})
	return t.waitErr
}

// Close closes the terminal
func (t *Terminal) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	ptyFile := t.ptyFile
	t.mu.Unlock()

	if ptyFile != nil {
		_ = ptyFile.Close()
	}
	if t.cmd != nil && t.cmd.Process != nil && t.cmd.ProcessState == nil {
		// The child leads its own session, so its pipeline goes with it.
		if err := process.KillGroup(t.cmd.Process.Pid, killGrace); err != nil {
			logging.Warn("%s", logging.Fields("op", "pty.Close", "pid", t.cmd.Process.Pid, "err", err))
			_ = t.cmd.Process.Kill()
		}
	}
	_ = t.Wait()
	return nil
}

// IsClosed reports whether Close has been called.
func (t *Terminal) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
