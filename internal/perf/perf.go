// Package perf collects timing samples and counters for the render and
// extraction paths. Collection is off unless TERMSEL_PROFILE is set. While
// on, a summary is logged every TERMSEL_PROFILE_INTERVAL_MS milliseconds.
package perf

import (
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/termsel/internal/logging"
)

const (
	sampleWindow    = 256
	defaultInterval = 5 * time.Second
)

// StatSnapshot summarizes the durations recorded under one name.
type StatSnapshot struct {
	Name  string
	Count int64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
	P95   time.Duration
}

// CounterSnapshot is the value of one counter.
type CounterSnapshot struct {
	Name  string
	Value int64
}

// series accumulates durations. window is a ring of the most recent samples
// used for the percentile.
type series struct {
	count  int64
	total  time.Duration
	min    time.Duration
	max    time.Duration
	window []time.Duration
	next   int
}

func (s *series) add(d time.Duration) {
	s.count++
	s.total += d
	if s.count == 1 || d < s.min {
		s.min = d
	}
	s.max = max(s.max, d)
	if len(s.window) < sampleWindow {
		s.window = append(s.window, d)
		return
	}
	s.window[s.next] = d
	s.next = (s.next + 1) % sampleWindow
}

func (s *series) snapshot(name string) StatSnapshot {
	return StatSnapshot{
		Name:  name,
		Count: s.count,
		Avg:   s.total / time.Duration(s.count),
		Min:   s.min,
		Max:   s.max,
		P95:   percentile(s.window, 0.95),
	}
}

// percentile returns the nearest-rank percentile of samples.
func percentile(samples []time.Duration, p float64) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[min(max(rank, 0), len(sorted)-1)]
}

type registry struct {
	mu       sync.Mutex
	series   map[string]*series
	counters map[string]int64
}

func (r *registry) reset() {
	r.mu.Lock()
	r.series = map[string]*series{}
	r.counters = map[string]int64{}
	r.mu.Unlock()
}

// drain returns everything collected so far, sorted by name, and starts over.
func (r *registry) drain() ([]StatSnapshot, []CounterSnapshot) {
	r.mu.Lock()
	all, counts := r.series, r.counters
	r.series = map[string]*series{}
	r.counters = map[string]int64{}
	r.mu.Unlock()

	stats := make([]StatSnapshot, 0, len(all))
	for name, s := range all {
		stats = append(stats, s.snapshot(name))
	}
	counters := make([]CounterSnapshot, 0, len(counts))
	for name, v := range counts {
		if v != 0 {
			counters = append(counters, CounterSnapshot{Name: name, Value: v})
		}
	}
	slices.SortFunc(stats, func(a, b StatSnapshot) int { return strings.Compare(a.Name, b.Name) })
	slices.SortFunc(counters, func(a, b CounterSnapshot) int { return strings.Compare(a.Name, b.Name) })
	return stats, counters
}

var (
	enabled  atomic.Bool
	interval atomic.Int64
	lastLog  atomic.Int64
	reg      = &registry{series: map[string]*series{}, counters: map[string]int64{}}
)

func init() {
	enabled.Store(parseEnabled(os.Getenv("TERMSEL_PROFILE")))
	interval.Store(int64(parseInterval(os.Getenv("TERMSEL_PROFILE_INTERVAL_MS"))))
}

// Time returns a function that records elapsed time when invoked.
func Time(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() {
		Record(name, time.Since(start))
	}
}

// Record captures a duration sample for the given name.
func Record(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	reg.mu.Lock()
	s, ok := reg.series[name]
	if !ok {
		s = &series{}
		reg.series[name] = s
	}
	s.add(d)
	reg.mu.Unlock()
	maybeLog()
}

// Count increments a named counter by delta.
func Count(name string, delta int64) {
	if !enabled.Load() {
		return
	}
	reg.mu.Lock()
	reg.counters[name] += delta
	reg.mu.Unlock()
	maybeLog()
}

func maybeLog() {
	every := time.Duration(interval.Load())
	if every <= 0 {
		return
	}
	now := time.Now().UnixNano()
	last := lastLog.Load()
	if last != 0 && time.Duration(now-last) < every {
		return
	}
	if lastLog.CompareAndSwap(last, now) {
		write("PERF")
	}
}

// Flush logs everything collected so far. reason is appended to the prefix.
func Flush(reason string) {
	if !enabled.Load() {
		return
	}
	prefix := "PERF SUMMARY"
	if reason = strings.TrimSpace(reason); reason != "" {
		prefix += " " + reason
	}
	write(prefix)
}

func write(prefix string) {
	stats, counters := reg.drain()
	for _, s := range stats {
		logging.Info("%s %s count=%d avg=%s p95=%s min=%s max=%s", prefix, s.Name, s.Count, s.Avg, s.P95, s.Min, s.Max)
	}
	for _, c := range counters {
		logging.Info("%s %s count=%d", prefix, c.Name, c.Value)
	}
}

func parseEnabled(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func parseInterval(raw string) time.Duration {
	if ms, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultInterval
}
