package button

import (
	"github.com/itohio/gouvbox/pkg/clock"
)

// DebounceInterval is the minimum time in milliseconds between raw
// button samples.
const DebounceInterval = 5

// Buttons is a bitset of the two front-panel buttons.
type Buttons uint8

const (
	// Start begins an exposure and edits time-setup values.
	Start Buttons = 1 << iota
	// Mode selects the UV channels and commits time-setup steps.
	Mode
)

// State is the outcome of one Poll: the debounced level of both
// buttons plus the edges observed since the previous Poll. Pressed and
// Released are mutually exclusive per button and non-zero on exactly
// one Poll per physical transition.
type State struct {
	Current  Buttons
	Pressed  Buttons
	Released Buttons
}

// Reader reports the instantaneous raw state of the buttons. A set bit
// means the button is physically held down; implementations normalize
// the wire polarity (the hardware lines are active-low with pull-ups).
type Reader interface {
	ReadButtons() Buttons
}

// Debouncer turns raw button reads into debounced levels and edge
// events. Raw reads are accepted at most once per DebounceInterval of
// clock time; between qualifying samples the last accepted state is
// reused. Edges are derived on every Poll from the debounced current
// versus previous state.
type Debouncer struct {
	r    Reader
	clk  clock.Clock
	last uint32
	cur  Buttons
	prev Buttons
}

// NewDebouncer returns a Debouncer sampling r on clk time.
func NewDebouncer(r Reader, clk clock.Clock) *Debouncer {
	return &Debouncer{r: r, clk: clk}
}

// Poll advances the debouncer by one control cycle and returns the
// resulting state.
func (d *Debouncer) Poll() State {
	now := d.clk.Now()
	if now-d.last >= DebounceInterval {
		d.cur = d.r.ReadButtons()
		d.last = now
	}

	st := State{
		Current:  d.cur,
		Pressed:  d.cur &^ d.prev,
		Released: d.prev &^ d.cur,
	}
	d.prev = d.cur
	return st
}
