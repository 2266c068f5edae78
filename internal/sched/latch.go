package sched

import "sync/atomic"

// Latch is the single-slot record of the most recently delivered signal
// number. The signal delivery goroutine is the only writer and the
// scheduler goroutine the only reader, between sleeps. If two distinct
// signals arrive during one sleep only the most recent is observable;
// earlier ones are lost. This is best-effort by contract — the latch is a
// liveness hint, not a queue.
type Latch struct {
	v atomic.Int32
}

// Set records sig as the last caught signal.
func (l *Latch) Set(sig int) {
	l.v.Store(int32(sig))
}

// Load returns the last caught signal number, zero when none.
func (l *Latch) Load() int {
	return int(l.v.Load())
}

// Clear resets the latch to "no signal caught". Called once per scan after
// every block has seen the value.
func (l *Latch) Clear() {
	l.v.Store(0)
}
