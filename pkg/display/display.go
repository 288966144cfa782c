package display

// Segment line bit assignments, in the wiring order of the display
// board. Segment lines are active-low on the wire; the dot line is
// active-high.
const (
	SegC    uint8 = 1
	SegA    uint8 = 2
	SegG    uint8 = 4
	SegB    uint8 = 8
	SegF    uint8 = 16
	SegD    uint8 = 32
	SegDots uint8 = 64
	SegE    uint8 = 128
)

// invertMask flips the seven segment lines to their active-low wire
// polarity, leaving the dot line untouched.
const invertMask = 0xFF &^ SegDots

const (
	// NumDigits is the width of the display.
	NumDigits = 3
	// AllDigits enables every digit line.
	AllDigits uint8 = 1<<NumDigits - 1
	// DotsOn lights the decimal dots when passed as the dots argument
	// of Refresh; zero blanks them.
	DotsOn uint8 = 0xFF
)

// glyphs holds the active-high segment sets for digits 0-9.
var glyphs = [10]uint8{
	SegA | SegB | SegC | SegD | SegE | SegF,
	SegB | SegC,
	SegA | SegB | SegD | SegE | SegG,
	SegA | SegB | SegC | SegD | SegG,
	SegB | SegC | SegF | SegG,
	SegA | SegC | SegD | SegF | SegG,
	SegA | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC,
	SegA | SegB | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC | SegD | SegF | SegG,
}

// Glyph returns the active-high segment set for a decimal digit 0-9.
func Glyph(v uint8) uint8 {
	return glyphs[v]
}

// Encode returns the wire pattern for a decimal digit: segment lines
// active-low, dot line unlit.
func Encode(v uint8) uint8 {
	return glyphs[v] ^ invertMask
}

// Split breaks a time in seconds into the three displayed digit
// values: ones-of-minutes, tens-of-seconds, ones-of-seconds. The
// hardware has a single minutes digit, so ten minutes and above alias.
func Split(t uint16) [NumDigits]uint8 {
	return [NumDigits]uint8{
		uint8(t / 60 % 10),
		uint8(t % 60 / 10),
		uint8(t % 60 % 10),
	}
}

// Port is the raw display bus: one write for the seven segment lines
// plus the dot line, one write replacing the digit-enable lines.
type Port interface {
	SetSegments(bits uint8)
	SetDigits(mask uint8)
}

// Driver multiplexes the three-digit display, rendering exactly one
// digit per Refresh call. Persistence of vision across repeated calls
// lights the whole display.
type Driver struct {
	port   Port
	cursor uint8
}

// NewDriver returns a Driver over p.
func NewDriver(p Port) *Driver {
	return &Driver{port: p}
}

// Refresh advances the digit cursor and renders that digit of t. dots
// set to DotsOn lights the decimal dots; the dot line follows dots on
// every call regardless of mask. mask gates which digit-enable lines
// may be asserted, so callers blink or blank digits while the cursor
// keeps advancing.
func (d *Driver) Refresh(t uint16, dots uint8, mask uint8) {
	d.cursor++
	if d.cursor == NumDigits {
		d.cursor = 0
	}

	digits := Split(t)

	d.port.SetDigits(0)
	d.port.SetSegments(Encode(digits[d.cursor]) | dots&SegDots)
	d.port.SetDigits(1 << d.cursor & mask & AllDigits)
}
