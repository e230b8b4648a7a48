package e2e

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"
)

// pollInterval is the fallback polling interval for WaitFor* methods.
const pollInterval = 50 * time.Millisecond

// PTYSession is a termsel process running under a pseudo-terminal.
type PTYSession struct {
	cmd     *exec.Cmd
	pty     *os.File
	updates chan struct{}
	done    chan struct{}

	mu  sync.Mutex
	raw bytes.Buffer

	waitOnce sync.Once
	waitErr  error
}

// PTYOptions configures StartPTYSession.
type PTYOptions struct {
	Width  int
	Height int
	Args   []string
	Setup  func(home string) error
	Env    []string
}

var (
	buildOnce sync.Once
	buildPath string
	buildErr  error
)

// StartPTYSession builds the termsel binary once and starts it with
// opts.Args and a private TERMSEL_HOME.
func StartPTYSession(opts PTYOptions) (*PTYSession, func(), error) {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}

	bin, err := buildTermselBinary()
	if err != nil {
		return nil, nil, err
	}

	home, err := os.MkdirTemp("", "termsel-e2e-home-*")
	if err != nil {
		return nil, nil, err
	}
	if opts.Setup != nil {
		if err := opts.Setup(home); err != nil {
			_ = os.RemoveAll(home)
			return nil, nil, err
		}
	}

	cmd := exec.Command(bin, opts.Args...)
	// creack/pty sets Setsid=true; Setpgid here can cause EPERM on start (macOS/BSD).
	cmd.SysProcAttr = &syscall.SysProcAttr{}
	cmd.Env = append(os.Environ(),
		"TERMSEL_HOME="+home,
		"TERM=xterm-256color",
		"TERMSEL_PROFILE=0",
	)
	cmd.Env = append(cmd.Env, opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(opts.Width),
		Rows: uint16(opts.Height),
	})
	if err != nil {
		_ = os.RemoveAll(home)
		return nil, nil, err
	}

	session := &PTYSession{
		cmd:     cmd,
		pty:     ptmx,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go session.readLoop()

	cleanup := func() {
		_ = ptmx.Close()
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = session.wait()
		_ = os.RemoveAll(home)
	}
	return session, cleanup, nil
}

func (s *PTYSession) readLoop() {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.raw.Write(buf[:n])
			s.mu.Unlock()
			select {
			case s.updates <- struct{}{}:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *PTYSession) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
	})
	return s.waitErr
}

// SendString writes text to the process as if typed.
func (s *PTYSession) SendString(text string) error {
	_, err := s.pty.Write([]byte(text))
	return err
}

// SendMouse sends an SGR mouse report. button is the SGR button code; press
// selects between the press and release forms. x and y are zero-based.
func (s *PTYSession) SendMouse(button, x, y int, press bool) error {
	final := 'M'
	if !press {
		final = 'm'
	}
	return s.SendString(fmt.Sprintf("\x1b[<%d;%d;%d%c", button, x+1, y+1, final))
}

// Output returns everything the process printed with escape sequences
// removed.
func (s *PTYSession) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ansi.Strip(s.raw.String())
}

// WaitForContains waits until substr appears in Output.
func (s *PTYSession) WaitForContains(substr string, timeout time.Duration) error {
	if strings.Contains(s.Output(), substr) {
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	poll := time.NewTimer(pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-s.updates:
			if strings.Contains(s.Output(), substr) {
				return nil
			}
		case <-poll.C:
			if strings.Contains(s.Output(), substr) {
				return nil
			}
			poll.Reset(pollInterval)
		case <-deadline.C:
			return fmt.Errorf("timeout waiting for %q\n\nOutput:\n%s", substr, s.Output())
		}
	}
}

// WaitForExit waits for the process to exit and returns its exit code.
func (s *PTYSession) WaitForExit(timeout time.Duration) (int, error) {
	exited := make(chan error, 1)
	go func() { exited <- s.wait() }()

	select {
	case err := <-exited:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		if err != nil {
			return -1, err
		}
		return 0, nil
	case <-time.After(timeout):
		return -1, fmt.Errorf("timeout waiting for exit\n\nOutput:\n%s", s.Output())
	}
}

func buildTermselBinary() (string, error) {
	if path := os.Getenv("TERMSEL_E2E_BIN"); path != "" {
		return path, nil
	}

	buildOnce.Do(func() {
		tmp, err := os.MkdirTemp("", "termsel-e2e-bin-*")
		if err != nil {
			buildErr = err
			return
		}
		out := filepath.Join(tmp, "termsel")
		root, err := repoRoot()
		if err != nil {
			buildErr = err
			return
		}
		cmd := exec.Command("go", "build", "-o", out, "./cmd/termsel")
		cmd.Dir = root
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			buildErr = err
			return
		}
		buildPath = out
	})
	return buildPath, buildErr
}

// removeBuiltBinary deletes the binary built by buildTermselBinary.
func removeBuiltBinary() {
	if buildPath != "" {
		_ = os.RemoveAll(filepath.Dir(buildPath))
	}
}
