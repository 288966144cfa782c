package uvbox

// Blink is a free running 1024-step phase accumulator advanced by two
// every control cycle, giving an on/off square wave with roughly
// quarter second halves at the 1 ms cadence.
type Blink struct {
	phase uint16
}

// Advance moves the phase by one control cycle.
func (b *Blink) Advance() {
	b.phase = (b.phase + 2) & 1023
}

// On reports whether the wave is in its lit half.
func (b *Blink) On() bool {
	return b.phase < 512
}

// Reset restarts the wave at the beginning of the lit half.
func (b *Blink) Reset() {
	b.phase = 0
}

// ResetDark restarts the wave at the beginning of the dark half.
func (b *Blink) ResetDark() {
	b.phase = 512
}
