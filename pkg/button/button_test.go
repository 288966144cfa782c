package button

import (
	"testing"

	"github.com/itohio/gouvbox/pkg/clock"
	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	v Buttons
}

func (f *fakeReader) ReadButtons() Buttons { return f.v }

func TestDebouncer_PressReleaseEdges(t *testing.T) {
	clk := &clock.Manual{}
	raw := &fakeReader{}
	d := NewDebouncer(raw, clk)

	// Nothing sampled before the first interval elapses.
	raw.v = Start
	st := d.Poll()
	assert.Equal(t, Buttons(0), st.Current)
	assert.Equal(t, Buttons(0), st.Pressed)

	clk.Advance(5)
	st = d.Poll()
	assert.Equal(t, Start, st.Current)
	assert.Equal(t, Start, st.Pressed, "press edge on the sampling poll")
	assert.Equal(t, Buttons(0), st.Released)

	// Edge fires exactly once.
	st = d.Poll()
	assert.Equal(t, Start, st.Current)
	assert.Equal(t, Buttons(0), st.Pressed)

	raw.v = 0
	clk.Advance(5)
	st = d.Poll()
	assert.Equal(t, Buttons(0), st.Current)
	assert.Equal(t, Start, st.Released, "release edge on the sampling poll")

	st = d.Poll()
	assert.Equal(t, Buttons(0), st.Released)
}

func TestDebouncer_BounceIgnoredBetweenSamples(t *testing.T) {
	clk := &clock.Manual{}
	raw := &fakeReader{}
	d := NewDebouncer(raw, clk)

	clk.Advance(5)
	raw.v = Start
	st := d.Poll()
	assert.Equal(t, Start, st.Pressed)

	// Contact bounce inside the debounce window: raw flips every
	// millisecond but no qualifying sample is taken.
	var presses, releases int
	for i := 0; i < 4; i++ {
		clk.Advance(1)
		if i%2 == 0 {
			raw.v = 0
		} else {
			raw.v = Start
		}
		st = d.Poll()
		assert.Equal(t, Start, st.Current, "last accepted state is reused")
		if st.Pressed != 0 {
			presses++
		}
		if st.Released != 0 {
			releases++
		}
	}
	assert.Zero(t, presses)
	assert.Zero(t, releases)

	// Settled high by the next qualifying sample: still no new edge.
	raw.v = Start
	clk.Advance(1)
	st = d.Poll()
	assert.Equal(t, Start, st.Current)
	assert.Equal(t, Buttons(0), st.Pressed)
}

func TestDebouncer_OneEdgePerTransition(t *testing.T) {
	clk := &clock.Manual{}
	raw := &fakeReader{}
	d := NewDebouncer(raw, clk)

	// Drive a press at 7 ms and a release at 23 ms, polling every
	// millisecond for 100 ms; each transition must surface exactly one
	// edge regardless of how many polls happen in between.
	var presses, releases int
	for ms := 1; ms <= 100; ms++ {
		clk.Advance(1)
		switch {
		case ms >= 7 && ms < 23:
			raw.v = Start
		default:
			raw.v = 0
		}
		st := d.Poll()
		if st.Pressed&Start != 0 {
			presses++
		}
		if st.Released&Start != 0 {
			releases++
		}
	}
	assert.Equal(t, 1, presses)
	assert.Equal(t, 1, releases)
}

func TestDebouncer_ButtonsIndependent(t *testing.T) {
	clk := &clock.Manual{}
	raw := &fakeReader{}
	d := NewDebouncer(raw, clk)

	raw.v = Start
	clk.Advance(5)
	st := d.Poll()
	assert.Equal(t, Start, st.Pressed)

	raw.v = Start | Mode
	clk.Advance(5)
	st = d.Poll()
	assert.Equal(t, Start|Mode, st.Current)
	assert.Equal(t, Mode, st.Pressed, "only the new button edges")
	assert.Equal(t, Buttons(0), st.Released)

	raw.v = Mode
	clk.Advance(5)
	st = d.Poll()
	assert.Equal(t, Mode, st.Current)
	assert.Equal(t, Start, st.Released)
	assert.Equal(t, Buttons(0), st.Pressed)
}
