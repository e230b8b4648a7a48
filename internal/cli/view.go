package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andyrewlee/termsel/internal/safego"
	"github.com/andyrewlee/termsel/internal/ui/viewer"
)

const feedChunk = 32 * 1024

func buildViewCommand(flags *globalFlags) *cobra.Command {
	var tf termFlags
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open a file or stdin in the selection viewer",
		Long: `Open a file, or data piped on stdin, in the selection viewer.

Drag to select, double-click for words, triple-click for lines. Hold
shift to extend and alt for block selection. Press ? for key bindings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if err := tf.apply(&cfg.Selection); err != nil {
				return err
			}

			var (
				title string
				feed  feedFunc
			)
			vt := newTerm(cfg.Selection)
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				_, _ = vt.Write(data)
				title = filepath.Base(args[0])
			} else {
				if term.IsTerminal(int(os.Stdin.Fd())) {
					return errors.New("nothing to view: pass a file or pipe data on stdin")
				}
				title = "stdin"
				feed = readerFeed(cmd.InOrStdin())
			}
			vt.ScrollViewToTop()

			defer flags.startLogging(cfg, cmd.ErrOrStderr())()
			return runViewer(cmd.Context(), cfg, vt, title, feed)
		},
	}
	tf.register(cmd)
	return cmd
}

// readerFeed streams r into the viewer as it arrives. A read blocked on a
// quiet pipe is abandoned when ctx ends.
func readerFeed(r io.Reader) feedFunc {
	return func(ctx context.Context, send func(tea.Msg)) error {
		done := safego.GoErr("viewer-read", func() error {
			buf := make([]byte, feedChunk)
			for ctx.Err() == nil {
				n, err := r.Read(buf)
				if n > 0 {
					send(viewer.OutputMsg(bytes.Clone(buf[:n])))
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
			}
			return nil
		})
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
