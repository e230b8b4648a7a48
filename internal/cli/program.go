package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andyrewlee/termsel/internal/config"
	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/supervisor"
	"github.com/andyrewlee/termsel/internal/ui/viewer"
	"github.com/andyrewlee/termsel/internal/vterm"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// termFlags are the buffer options shared by commands that build a VTerm.
type termFlags struct {
	widthMethod string
	scrollback  int
}

func (f *termFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.widthMethod, "width-method", "", "Glyph width measurement: grapheme or wcwidth")
	cmd.Flags().IntVar(&f.scrollback, "scrollback", 0, "Rows kept above the visible window (0 uses the config value)")
}

// apply overrides settings with any flags the user passed.
func (f *termFlags) apply(s *config.SelectionSettings) error {
	switch f.widthMethod {
	case "":
	case "grapheme", "wcwidth":
		s.WidthMethod = f.widthMethod
	default:
		return fmt.Errorf("unknown width method %q (want grapheme or wcwidth)", f.widthMethod)
	}
	if f.scrollback < 0 {
		return fmt.Errorf("scrollback must not be negative, got %d", f.scrollback)
	}
	if f.scrollback > 0 {
		s.Scrollback = f.scrollback
	}
	return nil
}

// newTerm builds a VTerm sized to the controlling terminal less the
// viewer's status row.
func newTerm(s config.SelectionSettings) *vterm.VTerm {
	width, height := terminalSize()
	return vterm.New(width, max(height-viewer.StatusHeight, 1),
		vterm.WithScrollback(s.Scrollback),
		vterm.WithWidthMethod(s.Width()),
	)
}

func terminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return defaultWidth, defaultHeight
	}
	return width, height
}

// feedFunc streams content into a running viewer. It returns when ctx is
// done or the source is exhausted.
type feedFunc func(ctx context.Context, send func(tea.Msg)) error

// runViewer runs the interactive viewer over vt until the user quits.
func runViewer(ctx context.Context, cfg *config.Config, vt *vterm.VTerm, title string, feed feedFunc, extra ...viewer.Option) error {
	model := viewer.New(vt, cfg, append([]viewer.Option{viewer.WithTitle(title)}, extra...)...)
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithFilter(viewer.NewMouseFilter().Filter),
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// stdin carried the content; read keys from the controlling terminal.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return fmt.Errorf("open controlling terminal: %w", err)
		}
		defer tty.Close()
		opts = append(opts, tea.WithInput(tty))
	}

	p := tea.NewProgram(model, opts...)
	workers := supervisor.New(ctx)
	defer workers.Stop()
	workers.OnError(func(name string, err error) {
		p.Send(viewer.WorkerFailedMsg{Name: name, Err: err})
	})

	watchSettings(workers, cfg, p.Send)
	if feed != nil {
		workers.Start("viewer-feed", func(ctx context.Context) error {
			return feed(ctx, p.Send)
		}, supervisor.WithRestartPolicy(supervisor.RestartNever))
	}

	logging.Info("%s", logging.Fields("event", "viewer_start", "title", title))
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run viewer: %w", err)
	}
	logging.Info("%s", logging.Fields("event", "viewer_exit", "title", title))
	return nil
}

// watchSettings reloads selection settings while the viewer runs. A watcher
// that fails is recreated with backoff.
func watchSettings(workers *supervisor.Supervisor, cfg *config.Config, send func(tea.Msg)) {
	workers.Start("config-watcher", func(ctx context.Context) error {
		w, err := config.NewWatcher(cfg.Paths.ConfigPath, func(s config.SelectionSettings) {
			send(viewer.SettingsChangedMsg{Settings: s})
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.Paths.ConfigPath, err)
		}
		defer w.Close()
		return w.Run(ctx)
	}, supervisor.WithMaxRestarts(5), supervisor.WithBackoff(time.Second, 30*time.Second))
}
