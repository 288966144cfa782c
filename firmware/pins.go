package main

import (
	"machine"

	"github.com/itohio/gouvbox/pkg/display"
)

const (
	// Loop timing
	// The debounce interval and the controller hold thresholds count
	// loop cycles at this rate: 500 cycles ~ 0.5 s, 1500 cycles ~ 1.5 s
	LOOP_INTERVAL_MS = 1

	// I2C bus for the AT24C32 EEPROM holding the exposure duration
	PIN_I2C_SDA = machine.GP0
	PIN_I2C_SCL = machine.GP1

	// Front panel buttons, active low with internal pull-ups
	PIN_BTN_START = machine.GP2
	PIN_BTN_MODE  = machine.GP3

	// Mode indicator LEDs
	PIN_LED_TOP    = machine.GP15
	PIN_LED_BOTTOM = machine.GP16

	// UV channel MOSFET gates
	PIN_UV_TOP    = machine.GP17
	PIN_UV_BOTTOM = machine.GP18
)

var (
	// Digit enable lines: minutes, tens of seconds, ones of seconds
	digitPins = [display.NumDigits]machine.Pin{
		machine.GP4,
		machine.GP5,
		machine.GP6,
	}

	// Segment lines in display bit order
	segmentPins = [8]machine.Pin{
		machine.GP7,  // C
		machine.GP8,  // A
		machine.GP9,  // G
		machine.GP10, // B
		machine.GP11, // F
		machine.GP12, // D
		machine.GP13, // decimal dots
		machine.GP14, // E
	}
)
