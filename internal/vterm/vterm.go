package vterm

import (
	"sync"

	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/selection"
)

// VTerm is a scrollable terminal view over a buffer with a text selection.
type VTerm struct {
	mu sync.Mutex

	buf *buffer.Buffer
	sel *selection.Engine

	// Dimensions of the visible window
	Width, Height int

	// Scroll viewing position (0 = live, >0 = lines scrolled up)
	ViewOffset int

	// Rows the buffer had dropped when the selection was last reconciled
	trimmed uint64

	version uint64
}

type config struct {
	bufferOpts    []buffer.Option
	selectionOpts []selection.Option
}

// Option configures a VTerm.
type Option func(*config)

// WithScrollback caps the rows kept above the visible window.
func WithScrollback(rows int) Option {
	return func(c *config) {
		c.bufferOpts = append(c.bufferOpts, buffer.WithScrollback(rows))
	}
}

// WithWidthMethod sets how glyph widths are measured.
func WithWidthMethod(m buffer.WidthMethod) Option {
	return func(c *config) {
		c.bufferOpts = append(c.bufferOpts, buffer.WithWidthMethod(m))
	}
}

// WithSelectionOptions passes options through to the selection engine.
func WithSelectionOptions(opts ...selection.Option) Option {
	return func(c *config) {
		c.selectionOpts = append(c.selectionOpts, opts...)
	}
}

// New creates a VTerm with the given dimensions
func New(width, height int, opts ...Option) *VTerm {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	width, height = max(width, 1), max(height, 1)
	v := &VTerm{
		buf:    buffer.New(width, height, cfg.bufferOpts...),
		Width:  width,
		Height: height,
	}
	v.sel = selection.New(v.buf, scrollState{v}, cfg.selectionOpts...)
	return v
}

// Buffer returns the underlying buffer.
func (v *VTerm) Buffer() *buffer.Buffer {
	return v.buf
}

// Write appends terminal output. A scrolled view stays on the rows it was
// showing while new output arrives.
func (v *VTerm) Write(data []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	top := v.visibleTop()
	trimmedBefore := v.buf.Trimmed()
	n, err := v.buf.Write(data)
	if v.ViewOffset > 0 {
		dropped := int(v.buf.Trimmed() - trimmedBefore)
		v.ViewOffset = v.buf.RowCount() - v.Height - max(top-dropped, 0)
		v.clampOffset()
	}
	v.reconcileTrim()
	v.bumpVersion()
	return n, err
}

// Resize handles terminal resize
func (v *VTerm) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	width, height = max(width, 1), max(height, 1)
	if width == v.Width && height == v.Height {
		return
	}
	v.buf.Resize(width, height)
	v.Width = width
	v.Height = height
	v.clampOffset()
	v.reconcileTrim()
	v.bumpVersion()
}

// Reset drops all content and any selection.
func (v *VTerm) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
	v.ViewOffset = 0
	v.reconcileTrim()
	v.sel.ClearSelection()
	v.bumpVersion()
}

// reconcileTrim moves the selection up by the rows dropped from scrollback
// since the last call.
func (v *VTerm) reconcileTrim() {
	trimmed := v.buf.Trimmed()
	if trimmed <= v.trimmed {
		return
	}
	v.sel.ShiftRows(int(trimmed - v.trimmed))
	v.trimmed = trimmed
}
