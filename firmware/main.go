//go:generate tinygo flash -target=pico

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/at24cx"

	"github.com/itohio/gouvbox/pkg/button"
	"github.com/itohio/gouvbox/pkg/clock"
	"github.com/itohio/gouvbox/pkg/display"
	"github.com/itohio/gouvbox/pkg/store"
	"github.com/itohio/gouvbox/pkg/uvbox"
)

// pinReader reads the front panel buttons. The lines are active low, so
// a low level reports as a set bit.
type pinReader struct{}

func (pinReader) ReadButtons() button.Buttons {
	var b button.Buttons
	if !PIN_BTN_START.Get() {
		b |= button.Start
	}
	if !PIN_BTN_MODE.Get() {
		b |= button.Mode
	}
	return b
}

// pinPort mirrors display bus writes onto the GPIO lines. Wire polarity
// is baked into the encoded patterns, so bits map to levels directly.
type pinPort struct{}

func (pinPort) SetSegments(bits uint8) {
	for i, pin := range segmentPins {
		pin.Set(bits&(1<<i) != 0)
	}
}

func (pinPort) SetDigits(mask uint8) {
	for i, pin := range digitPins {
		pin.Set(mask&(1<<i) != 0)
	}
}

// statusLine holds the reported fields of the last serial status line.
type statusLine struct {
	state     uvbox.State
	mode      uvbox.Mode
	duration  uint16
	remaining uint16
	dots      uint8
	mask      uint8
	top       bool
	bottom    bool
}

var (
	lastReport statusLine
	reported   bool
)

func main() {
	// Configure button inputs with pull-ups
	PIN_BTN_START.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_BTN_MODE.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	// Configure display, LED and UV pins as outputs
	for _, pin := range segmentPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	for _, pin := range digitPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	PIN_LED_TOP.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED_BOTTOM.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_UV_TOP.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_UV_BOTTOM.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// Configure the EEPROM bus. On failure the box still runs, it just
	// cannot load or persist the duration.
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: PIN_I2C_SDA,
		SCL: PIN_I2C_SCL,
	})
	if err != nil {
		println("failed to configure I2C:", err.Error())
	}
	eeprom := at24cx.New(machine.I2C0)
	eeprom.Configure(at24cx.Config{})

	st := store.New(&eeprom)
	duration, err := st.Load()
	if err != nil {
		println("failed to load duration:", err.Error())
	}

	clk := clock.NewSystem()
	buttons := button.NewDebouncer(pinReader{}, clk)
	driver := display.NewDriver(pinPort{})
	ctl := uvbox.New(uvbox.Config{
		Store:    st,
		Duration: duration,
		Mode:     uvbox.ModeTop,
		OnSaveError: func(err error) {
			println("failed to persist duration:", err.Error())
		},
	})

	// Main loop
	for {
		now := clk.Now()
		in := buttons.Poll()
		out := ctl.Step(now, in)

		driver.Refresh(out.Time, out.Dots, out.Mask)
		PIN_UV_TOP.Set(out.UVTop)
		PIN_UV_BOTTOM.Set(out.UVBottom)
		PIN_LED_TOP.Set(out.LEDTop)
		PIN_LED_BOTTOM.Set(out.LEDBottom)

		reportStatus(now, ctl, out)

		time.Sleep(LOOP_INTERVAL_MS * time.Millisecond)
	}
}

// reportStatus writes one status line to the serial console whenever a
// reported field changed. The timestamp alone never triggers a line, so
// an untouched box stays quiet.
func reportStatus(now uint32, ctl *uvbox.Controller, out uvbox.Outputs) {
	line := statusLine{
		state:     ctl.State(),
		mode:      ctl.Mode(),
		duration:  ctl.Duration(),
		remaining: ctl.Remaining(),
		dots:      out.Dots,
		mask:      out.Mask,
		top:       out.UVTop,
		bottom:    out.UVBottom,
	}
	if reported && line == lastReport {
		return
	}
	lastReport = line
	reported = true

	// Output format: "millis,state,mode,duration,remaining,dots,mask,channels\n"
	// Example: "123456,exposure,both,125,60,255,7,11\n"
	print(now)
	print(",")
	print(line.state.String())
	print(",")
	print(line.mode.String())
	print(",")
	print(line.duration)
	print(",")
	print(line.remaining)
	print(",")
	print(line.dots)
	print(",")
	print(line.mask)
	print(",")
	if line.top {
		print("1")
	} else {
		print("0")
	}
	if line.bottom {
		print("1")
	} else {
		print("0")
	}
	print("\n")
}
