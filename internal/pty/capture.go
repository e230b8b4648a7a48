package pty

import (
	"context"
	"errors"
	"io"

	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/safego"
)

// Size is a terminal size in cells.
type Size struct {
	Rows uint16
	Cols uint16
}

// Capture runs c under a PTY and copies everything it prints to w until the
// process exits. The process exit status is returned; output already copied
// stays in w either way.
func Capture(ctx context.Context, c Command, w io.Writer) error {
	return CaptureResizable(ctx, c, w, nil)
}

// CaptureResizable is Capture with the PTY window following each size
// received on resize.
func CaptureResizable(ctx context.Context, c Command, w io.Writer, resize <-chan Size) error {
	term, err := Start(ctx, c)
	if err != nil {
		return err
	}
	defer term.Close()

	copied := safego.GoErr("pty.capture", func() error {
		_, err := io.Copy(w, term)
		return err
	})

	var copyErr error
wait:
	for {
		select {
		case copyErr = <-copied:
			break wait
		case size := <-resize:
			if err := term.SetSize(size.Rows, size.Cols); err != nil && !term.IsClosed() {
				logging.Warn("%s", logging.Fields("op", "pty.Capture", "event", "resize_failed", "rows", size.Rows, "cols", size.Cols, "err", err))
			}
		case <-ctx.Done():
			_ = term.Close()
			<-copied
			return ctx.Err()
		}
	}

	waitErr := term.Wait()
	if copyErr != nil && !errors.Is(copyErr, io.EOF) {
		logging.WithError(copyErr, logging.Fields("op", "pty.Capture", "cmd", c.Name))
		return copyErr
	}
	return waitErr
}
