package perf

// EnableForTest turns collection on with periodic logging off and clears
// anything already collected. The returned func restores the previous state.
func EnableForTest() func() {
	prevEnabled := enabled.Load()
	prevInterval := interval.Load()
	enabled.Store(true)
	interval.Store(0)
	lastLog.Store(0)
	reg.reset()
	return func() {
		enabled.Store(prevEnabled)
		interval.Store(prevInterval)
		reg.reset()
	}
}

// Snapshot returns everything collected so far and resets the collectors.
func Snapshot() ([]StatSnapshot, []CounterSnapshot) {
	return reg.drain()
}
