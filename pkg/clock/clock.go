package clock

import (
	"sync/atomic"
	"time"
)

// DefaultTickPeriod is the Ticker period in microseconds, matching a
// hardware timer overflowing every 0.256 ms.
const DefaultTickPeriod = 256

// Clock provides milliseconds elapsed since startup. It is the single
// time accessor for the whole control path; implementations guarantee
// that Now never returns a torn value even while the counter is being
// advanced concurrently.
type Clock interface {
	Now() uint32
}

// Ticker accumulates fixed-period timer ticks into a millisecond
// counter. Tick is intended to be called from a timer interrupt or an
// equivalent single periodic source; Now may be called from anywhere.
type Ticker struct {
	millis atomic.Uint32
	micros uint32
	period uint32
}

var _ Clock = (*Ticker)(nil)

// NewTicker returns a Ticker advanced by periodMicros microseconds per
// Tick. A zero period selects DefaultTickPeriod.
func NewTicker(periodMicros uint32) *Ticker {
	if periodMicros == 0 {
		periodMicros = DefaultTickPeriod
	}
	return &Ticker{period: periodMicros}
}

// Tick adds one period to the sub-millisecond remainder and promotes
// whole milliseconds. The remainder stays within [0, 1000], so no time
// is lost across ticks; promotion may lag by one tick when the
// remainder rests at exactly 1000.
func (t *Ticker) Tick() {
	t.micros += t.period
	for t.micros > 1000 {
		t.millis.Add(1)
		t.micros -= 1000
	}
}

// Now returns the promoted millisecond count.
func (t *Ticker) Now() uint32 {
	return t.millis.Load()
}

// System derives milliseconds from the runtime monotonic clock. It is
// the clock used by firmware and host mains, where the runtime already
// owns the hardware timer.
type System struct {
	start time.Time
}

var _ Clock = (*System)(nil)

// NewSystem returns a System clock starting at zero.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Now returns milliseconds since the clock was created.
func (s *System) Now() uint32 {
	return uint32(time.Since(s.start).Milliseconds())
}

// Manual is a hand-stepped clock for tests and simulation. It is not
// safe for concurrent use; a single owner advances and reads it.
type Manual struct {
	ms uint32
}

var _ Clock = (*Manual)(nil)

// Advance moves the clock forward by ms milliseconds.
func (m *Manual) Advance(ms uint32) {
	m.ms += ms
}

// Now returns the current manual time.
func (m *Manual) Now() uint32 {
	return m.ms
}
