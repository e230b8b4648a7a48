package safego

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/andyrewlee/termsel/internal/logging"
)

// PanicHandler receives panic details from recovered goroutines.
type PanicHandler func(name string, recovered any, stack []byte)

// PanicError reports a panic recovered by Do.
type PanicError struct {
	Name      string
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Recovered)
}

var (
	panicHandlerMu sync.RWMutex
	panicHandler   PanicHandler
)

// SetPanicHandler registers a global handler for recovered panics.
func SetPanicHandler(handler PanicHandler) {
	panicHandlerMu.Lock()
	panicHandler = handler
	panicHandlerMu.Unlock()
}

// Do executes fn and returns its error, converting a panic into a
// *PanicError. It does not recover from runtime-fatal errors.
func Do(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(name, r)
		}
	}()
	return fn()
}

// Run executes fn and converts panics into logged errors.
func Run(name string, fn func()) {
	_ = Do(name, func() error {
		fn()
		return nil
	})
}

// Go runs fn in a new goroutine with panic recovery.
func Go(name string, fn func()) {
	go Run(name, fn)
}

// GoErr runs fn in a new goroutine and delivers its result, panic included,
// on the returned channel.
func GoErr(name string, fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- Do(name, fn)
	}()
	return done
}

func recovered(name string, r any) error {
	label := name
	if label == "" {
		label = "goroutine"
	}
	stack := debug.Stack()
	logging.Error("%s\n%s", logging.Fields("op", "safego", "name", label, "panic", fmt.Sprint(r)), stack)

	panicHandlerMu.RLock()
	handler := panicHandler
	panicHandlerMu.RUnlock()
	if handler != nil {
		func() {
			defer func() { _ = recover() }()
			handler(label, r, stack)
		}()
	}
	return &PanicError{Name: label, Recovered: r, Stack: stack}
}
