package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/pty"
	"github.com/andyrewlee/termsel/internal/ui/viewer"
)

func buildCaptureCommand(flags *globalFlags) *cobra.Command {
	var (
		tf         termFlags
		printPlain bool
	)
	cmd := &cobra.Command{
		Use:   "capture [flags] -- <command> [args...]",
		Short: "Run a command under a PTY and select from its output",
		Long: `Run a command under a pseudo-terminal and open its output in the
selection viewer as it arrives. With --print the command runs to completion
and its output is written to stdout as plain text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if err := tf.apply(&cfg.Selection); err != nil {
				return err
			}

			width, height := terminalSize()
			c := pty.Command{
				Name: args[0],
				Args: args[1:],
				Env:  os.Environ(),
				Rows: uint16(height),
				Cols: uint16(width),
			}

			if printPlain {
				return capturePlain(cmd.Context(), c, cmd)
			}

			c.Rows = uint16(max(height-viewer.StatusHeight, 1))
			vt := newTerm(cfg.Selection)
			sizes := make(chan pty.Size, 1)
			defer flags.startLogging(cfg, cmd.ErrOrStderr())()
			return runViewer(cmd.Context(), cfg, vt, strings.Join(args, " "), captureFeed(c, sizes),
				viewer.WithResizeHook(latestSize(sizes)))
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&printPlain, "print", false, "Write the captured output to stdout as plain text")
	tf.register(cmd)
	return cmd
}

// capturePlain runs c to completion and prints its output without escape
// sequences. A non-zero exit status becomes the CLI exit code.
func capturePlain(ctx context.Context, c pty.Command, cmd *cobra.Command) error {
	var raw bytes.Buffer
	runErr := pty.Capture(ctx, c, &raw)

	text := strings.ReplaceAll(ansi.Strip(raw.String()), "\r\n", "\n")
	if _, err := fmt.Fprint(cmd.OutOrStdout(), text); err != nil {
		return err
	}
	return exitStatus(runErr)
}

// captureFeed streams the command's output into the viewer. The PTY window
// follows the sizes received on sizes.
func captureFeed(c pty.Command, sizes <-chan pty.Size) feedFunc {
	return func(ctx context.Context, send func(tea.Msg)) error {
		err := pty.CaptureResizable(ctx, c, msgWriter(send), sizes)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logging.Info("%s", logging.Fields("event", "capture_exit", "cmd", c.Name, "code", exitErr.ExitCode()))
			return nil
		}
		return err
	}
}

// latestSize returns a resize hook that keeps only the newest size queued on
// ch. It never blocks the UI.
func latestSize(ch chan pty.Size) func(cols, rows int) {
	return func(cols, rows int) {
		size := pty.Size{Rows: uint16(max(rows, 1)), Cols: uint16(max(cols, 1))}
		for {
			select {
			case ch <- size:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

// msgWriter forwards writes to the viewer as OutputMsg.
type msgWriter func(tea.Msg)

func (w msgWriter) Write(p []byte) (int, error) {
	w(viewer.OutputMsg(bytes.Clone(p)))
	return len(p), nil
}

// exitStatus maps a command's exit status onto an exitError.
func exitStatus(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			code = 1
		}
		return exitError{code: code}
	}
	return err
}
