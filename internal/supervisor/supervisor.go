package supervisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/safego"
)

// RestartPolicy controls when a worker is run again after it returns.
type RestartPolicy int

const (
	RestartNever RestartPolicy = iota
	RestartOnError
	RestartAlways
)

type workerConfig struct {
	policy      RestartPolicy
	maxRestarts int
	backoff     time.Duration
	maxBackoff  time.Duration
}

// Option configures one worker.
type Option func(*workerConfig)

// WithRestartPolicy sets the restart policy.
func WithRestartPolicy(policy RestartPolicy) Option {
	return func(c *workerConfig) {
		c.policy = policy
	}
}

// WithMaxRestarts limits the number of restarts (0 = unlimited).
func WithMaxRestarts(n int) Option {
	return func(c *workerConfig) {
		c.maxRestarts = n
	}
}

// WithBackoff sets the first delay between restarts and its cap. The delay
// doubles after every restart.
func WithBackoff(initial, limit time.Duration) Option {
	return func(c *workerConfig) {
		c.backoff = initial
		c.maxBackoff = limit
	}
}

// Supervisor runs the background workers of one viewer session and stops
// them together.
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	onError func(name string, err error)
}

// New creates a supervisor bound to parent.
func New(parent context.Context) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the supervisor stops.
func (s *Supervisor) Context() context.Context {
	return s.ctx
}

// OnError registers a callback for worker failures. Failures caused by the
// supervisor stopping are not reported.
func (s *Supervisor) OnError(fn func(name string, err error)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// Stop cancels every worker and waits for them to return.
func (s *Supervisor) Stop() {
	if s == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

// Start runs fn in its own goroutine, restarting it according to opts.
// Panics are recovered and treated as errors.
func (s *Supervisor) Start(name string, fn func(context.Context) error, opts ...Option) {
	if s == nil || fn == nil {
		return
	}
	cfg := workerConfig{
		policy:     RestartOnError,
		backoff:    200 * time.Millisecond,
		maxBackoff: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.maxBackoff = max(cfg.maxBackoff, cfg.backoff)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(name, fn, cfg)
	}()
}

func (s *Supervisor) loop(name string, fn func(context.Context) error, cfg workerConfig) {
	delay := cfg.backoff
	for restarts := 0; ; restarts++ {
		err := safego.Do(name, func() error { return fn(s.ctx) })
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			s.report(name, err)
		}
		if !shouldRestart(err, cfg.policy) {
			return
		}
		if cfg.maxRestarts > 0 && restarts >= cfg.maxRestarts {
			logging.Error("%s", logging.Fields("op", "supervisor", "worker", name, "event", "max_restarts", "limit", cfg.maxRestarts))
			return
		}
		if !s.sleep(delay) {
			return
		}
		delay = min(delay*2, cfg.maxBackoff)
	}
}

// sleep waits for d or until the supervisor stops. It reports whether the
// worker should keep going.
func (s *Supervisor) sleep(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Supervisor) report(name string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	logging.Warn("%s", logging.Fields("op", "supervisor", "worker", name, "err", err))
	s.mu.Lock()
	fn := s.onError
	s.mu.Unlock()
	if fn != nil {
		fn(name, err)
	}
}

func shouldRestart(err error, policy RestartPolicy) bool {
	switch policy {
	case RestartAlways:
		return true
	case RestartOnError:
		return err != nil
	default:
		return false
	}
}
