package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/config"
	"github.com/andyrewlee/termsel/internal/selection"
)

const (
	formatText = "text"
	formatHTML = "html"
)

// pointFlag parses "X,Y" into a buffer point.
type pointFlag struct {
	p   buffer.Point
	set bool
}

var _ pflag.Value = (*pointFlag)(nil)

func (f *pointFlag) String() string {
	if !f.set {
		return ""
	}
	return fmt.Sprintf("%d,%d", f.p.X, f.p.Y)
}

func (f *pointFlag) Set(s string) error {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("want X,Y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return fmt.Errorf("bad column in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return fmt.Errorf("bad row in %q: %w", s, err)
	}
	if x < 0 || y < 0 {
		return fmt.Errorf("point %q must not be negative", s)
	}
	f.p = buffer.Point{X: x, Y: y}
	f.set = true
	return nil
}

func (f *pointFlag) Type() string { return "X,Y" }

// extractOptions are the flags of the extract command.
type extractOptions struct {
	from, to   pointFlag
	mode       string
	block      bool
	singleLine bool
	all        bool
	format     string
	width      int
	height     int
}

func buildExtractCommand(flags *globalFlags) *cobra.Command {
	var (
		opts extractOptions
		tf   termFlags
	)
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the text of a selection without opening the viewer",
		Long: `Lay out a file (or stdin) in a buffer of the given width, make a
selection and print the selected text.

Coordinates are zero-based buffer cells, counted from the first row. The
selection begins at --from, expanded by --mode (word and line behave like
a double or triple click), and is extended to --to when given.`,
		Example: `  termsel extract log.txt --from 0,3 --to 20,5
  termsel extract log.txt --from 12,0 --mode word
  ls -l | termsel extract --from 10,1 --to 30,4 --block`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if err := tf.apply(&cfg.Selection); err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			out, err := extract(in, cfg.Selection, opts)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().Var(&opts.from, "from", "Cell where the selection begins")
	cmd.Flags().Var(&opts.to, "to", "Cell the selection is extended to")
	cmd.Flags().StringVar(&opts.mode, "mode", "cell", "Expansion: cell, word or line")
	cmd.Flags().BoolVar(&opts.block, "block", false, "Block (rectangular) selection")
	cmd.Flags().BoolVar(&opts.singleLine, "single-line", false, "Join the selected rows into one line")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Select the whole buffer")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Output format: text or html")
	cmd.Flags().IntVar(&opts.width, "width", defaultWidth, "Buffer width in columns")
	cmd.Flags().IntVar(&opts.height, "height", defaultHeight, "Minimum buffer height in rows")
	cmd.MarkFlagsMutuallyExclusive("all", "from")
	tf.register(cmd)
	return cmd
}

// extractModes are the expansions a selection can start with.
var extractModes = []selection.Expansion{selection.ExpandCell, selection.ExpandWord, selection.ExpandLine}

// extract lays in out in a buffer and returns the formatted selection.
func extract(in io.Reader, s config.SelectionSettings, opts extractOptions) (string, error) {
	if opts.width <= 0 || opts.height <= 0 {
		return "", fmt.Errorf("buffer size must be positive, got %dx%d", opts.width, opts.height)
	}
	if !opts.all && !opts.from.set {
		return "", errors.New("--from or --all is required")
	}
	mode, err := selection.ParseExpansion(opts.mode)
	if err != nil {
		return "", err
	}
	if !slices.Contains(extractModes, mode) {
		return "", fmt.Errorf("--mode %s only applies to keyboard movement (want cell, word or line)", mode)
	}
	if opts.format != formatText && opts.format != formatHTML {
		return "", fmt.Errorf("unknown format %q (want text or html)", opts.format)
	}

	buf := buffer.New(opts.width, opts.height,
		buffer.WithScrollback(s.Scrollback),
		buffer.WithWidthMethod(s.Width()),
	)
	if _, err := io.Copy(buf, in); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	engine := selection.New(buf, wholeBuffer{buf},
		selection.WithWordDelimiters(s.WordDelimiters),
		selection.WithTrimBlockSelection(s.TrimBlockSelection),
		selection.WithColorResolver(s.Palette().Colors),
	)
	switch {
	case opts.all:
		engine.SelectAll()
	case mode == selection.ExpandWord || mode == selection.ExpandLine:
		engine.MultiClickSelection(opts.from.p, mode)
	default:
		engine.SetSelectionAnchor(opts.from.p)
	}
	engine.SetBlockSelection(opts.block)
	if opts.to.set {
		engine.SetSelectionEnd(opts.to.p, nil)
	}

	text := engine.RetrieveSelectedText(opts.singleLine)
	if opts.format == formatHTML {
		return text.HTML(), nil
	}
	return text.String(), nil
}

// wholeBuffer is a viewport covering every row, so viewport and buffer
// coordinates coincide.
type wholeBuffer struct {
	buf *buffer.Buffer
}

func (w wholeBuffer) VisibleViewport() buffer.Bounds { return w.buf.Size() }

func (wholeBuffer) ScrollView(int) {}
