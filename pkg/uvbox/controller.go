package uvbox

import (
	"fmt"

	"github.com/itohio/gouvbox/pkg/button"
	"github.com/itohio/gouvbox/pkg/display"
	"github.com/itohio/gouvbox/pkg/store"
)

// State identifies the controller's top level state.
type State uint8

const (
	// StateIdle shows the configured duration and waits for a command.
	StateIdle State = iota
	// StateSetupMinutes edits the minutes digit of the duration.
	StateSetupMinutes
	// StateSetupSeconds edits the seconds digits of the duration.
	StateSetupSeconds
	// StateExposure runs the countdown with the UV channels driven.
	StateExposure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSetupMinutes:
		return "setup-minutes"
	case StateSetupSeconds:
		return "setup-seconds"
	case StateExposure:
		return "exposure"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Hold thresholds in control cycles. The cadence of Step calls defines
// the wall time they correspond to; at 1 ms per cycle a long press is
// half a second and the setup hold a second and a half.
const (
	ExposureHoldCycles = 500
	SetupHoldCycles    = 1500
	CancelHoldCycles   = 500
)

// SecondsStep is the increment of the seconds editing stage.
const SecondsStep = 5

// Outputs is one display and power frame, produced every control cycle.
type Outputs struct {
	// Time is the value handed to the display driver, in seconds.
	Time uint16
	// Dots gates the colon segment, display.DotsOn or zero.
	Dots uint8
	// Mask selects which digits are enabled this frame.
	Mask uint8

	UVTop    bool
	UVBottom bool

	LEDTop    bool
	LEDBottom bool
}

// DurationStore persists the exposure duration between power cycles.
type DurationStore interface {
	Save(seconds uint16) error
}

// Config seeds a Controller.
type Config struct {
	// Store receives committed durations. May be nil.
	Store DurationStore
	// Duration is the boot value in seconds. Out of range values fall
	// back to the default.
	Duration uint16
	// Mode is the boot channel selection.
	Mode Mode
	// OnSaveError is called when a commit fails to persist. May be nil.
	OnSaveError func(error)
}

// Controller is the exposure box state machine. It performs no I/O of
// its own: the caller polls the buttons, calls Step once per cycle and
// applies the returned frame to the display and the power outputs.
type Controller struct {
	store       DurationStore
	onSaveError func(error)

	state    State
	draining bool

	mode     Mode
	duration uint16
	blink    Blink

	startHold uint16
	modeHold  uint16

	mins uint8
	secs uint8

	entry     uint32
	remaining uint16
}

// New builds an idle Controller with a sanitized boot configuration.
func New(cfg Config) *Controller {
	d := cfg.Duration
	if d > store.MaxDuration {
		d = store.DefaultDuration
	}
	return &Controller{
		store:       cfg.Store,
		onSaveError: cfg.OnSaveError,
		mode:        cfg.Mode % numModes,
		duration:    d,
	}
}

// State reports the current top level state.
func (c *Controller) State() State { return c.state }

// Mode reports the selected channel mode.
func (c *Controller) Mode() Mode { return c.mode }

// Duration reports the configured exposure time in seconds.
func (c *Controller) Duration() uint16 { return c.duration }

// Remaining reports the seconds left in a running exposure, zero
// otherwise.
func (c *Controller) Remaining() uint16 { return c.remaining }

// Step runs one control cycle. now is the millisecond clock reading and
// in the debounced button state for this cycle.
func (c *Controller) Step(now uint32, in button.State) Outputs {
	// After a transition triggered by a held button the box stays
	// blank until every button is released, so one long press cannot
	// leak into the next state.
	if c.draining {
		if in.Current != 0 {
			return c.lines(0, 0, 0, false)
		}
		c.draining = false
		// The poll that completes the drain carries the release edges
		// of the drained gesture. They end with it; the state handler
		// below sees a quiet input.
		in.Pressed = 0
		in.Released = 0
		if c.state == StateExposure {
			c.entry = now
			c.blink.Reset()
		}
	}

	switch c.state {
	case StateSetupMinutes:
		return c.stepSetupMinutes(in)
	case StateSetupSeconds:
		return c.stepSetupSeconds(in)
	case StateExposure:
		return c.stepExposure(now, in)
	}
	return c.stepIdle(in)
}

func (c *Controller) stepIdle(in button.State) Outputs {
	if in.Current&button.Start != 0 {
		c.startHold++
		if c.startHold == ExposureHoldCycles {
			c.beginDrain(StateExposure)
			return c.lines(0, 0, 0, false)
		}
	} else {
		c.startHold = 0
	}

	// A short press cycles the channel mode on release. A hold long
	// enough to open setup never produces that release in Idle, so it
	// leaves the mode alone.
	if in.Released&button.Mode != 0 {
		c.mode = c.mode.Next()
	}

	if in.Current&button.Mode != 0 {
		c.modeHold++
		if c.modeHold == SetupHoldCycles {
			c.enterSetup()
		}
	} else {
		c.modeHold = 0
	}

	return c.lines(c.duration, display.DotsOn, display.AllDigits, false)
}

// enterSetup switches to minutes editing. The Mode button is still held
// at this point; its release is ignored by the editing stages, so the
// press that eventually commits is always a fresh edge.
func (c *Controller) enterSetup() {
	c.state = StateSetupMinutes
	c.mins = uint8(c.duration / 60)
	c.secs = uint8(c.duration % 60)
	c.blink.ResetDark()
	c.startHold = 0
	c.modeHold = 0
}

func (c *Controller) stepSetupMinutes(in button.State) Outputs {
	if in.Pressed&button.Start != 0 {
		c.mins = (c.mins + 1) % 10
		c.blink.Reset()
	}
	c.duration = uint16(c.mins) * 60

	// Only the minutes digit shows, blinking.
	var mask uint8
	if c.blink.On() {
		mask = 1
	}
	out := c.lines(c.duration, display.DotsOn, mask, false)
	c.blink.Advance()

	if in.Pressed&button.Mode != 0 {
		c.state = StateSetupSeconds
		c.blink.Reset()
	}
	return out
}

func (c *Controller) stepSetupSeconds(in button.State) Outputs {
	if in.Pressed&button.Start != 0 {
		c.secs = (c.secs + SecondsStep) % 60
		c.blink.Reset()
	}
	c.duration = uint16(c.mins)*60 + uint16(c.secs)

	// The seconds digits blink while the minutes digit stays on.
	mask := uint8(1)
	if c.blink.On() {
		mask = display.AllDigits
	}
	out := c.lines(c.duration, display.DotsOn, mask, false)
	c.blink.Advance()

	if in.Pressed&button.Mode != 0 {
		c.commit()
	}
	return out
}

// commit persists the edited duration and returns to Idle. A failed
// save keeps the new value in memory for this session.
func (c *Controller) commit() {
	if c.store != nil {
		if err := c.store.Save(c.duration); err != nil && c.onSaveError != nil {
			c.onSaveError(fmt.Errorf("persist duration: %w", err))
		}
	}
	c.beginDrain(StateIdle)
}

func (c *Controller) stepExposure(now uint32, in button.State) Outputs {
	elapsed := (now - c.entry) / 1000
	remaining := uint16(0)
	if uint32(c.duration) > elapsed {
		remaining = c.duration - uint16(elapsed)
	}
	c.remaining = remaining

	on := c.blink.On()
	c.blink.Advance()

	var dots uint8
	if on {
		dots = display.DotsOn
	}
	// The digits stay solid while counting; once the countdown ends
	// the whole readout flashes until acknowledged.
	mask := display.AllDigits
	if remaining == 0 && !on {
		mask = 0
	}
	out := c.lines(remaining, dots, mask, remaining > 0)

	if in.Current&button.Start != 0 {
		c.startHold++
	} else {
		c.startHold = 0
	}

	// Once finished any Start level returns to Idle. Mid-run a full
	// half second hold aborts.
	if remaining == 0 && in.Current&button.Start != 0 {
		c.beginDrain(StateIdle)
		return c.lines(0, 0, 0, false)
	}
	if c.startHold == CancelHoldCycles {
		c.beginDrain(StateIdle)
		return c.lines(0, 0, 0, false)
	}
	return out
}

// beginDrain blanks the box until every button is released, then hands
// control to next. Hold counters restart from zero afterwards.
func (c *Controller) beginDrain(next State) {
	c.state = next
	c.draining = true
	c.startHold = 0
	c.modeHold = 0
	c.remaining = 0
}

// lines assembles a frame. The indicator LEDs always track the selected
// mode; the UV channels additionally require uv.
func (c *Controller) lines(t uint16, dots, mask uint8, uv bool) Outputs {
	top, bottom := c.mode.Lines()
	return Outputs{
		Time:      t,
		Dots:      dots,
		Mask:      mask,
		UVTop:     uv && top,
		UVBottom:  uv && bottom,
		LEDTop:    top,
		LEDBottom: bottom,
	}
}
