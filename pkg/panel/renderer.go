package panel

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"

	"github.com/itohio/gouvbox/pkg/display"
	"github.com/itohio/gouvbox/pkg/link"
	"github.com/itohio/gouvbox/pkg/uvbox"
)

// Panel palette.
var (
	colorSegLit   = color.RGBA{R: 255, G: 64, B: 32, A: 255}
	colorSegGhost = color.RGBA{R: 45, G: 22, B: 18, A: 255}
	colorUVLit    = color.RGBA{R: 150, G: 60, B: 255, A: 255}
	colorUVOff    = color.RGBA{R: 40, G: 35, B: 50, A: 255}
	colorLEDLit   = color.RGBA{R: 60, G: 220, B: 90, A: 255}
	colorLEDOff   = color.RGBA{R: 30, G: 60, B: 38, A: 255}
	colorLabel    = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	colorCaption  = color.RGBA{R: 170, G: 170, B: 170, A: 255}
)

// segGeometry maps each segment line bit onto its stroke inside a
// digit cell, in units of the segment length. A cell is one unit wide
// and two units tall.
var segGeometry = []struct {
	bit            uint8
	x1, y1, x2, y2 float32
}{
	{display.SegA, 0, 0, 1, 0},
	{display.SegB, 1, 0, 1, 1},
	{display.SegC, 1, 1, 1, 2},
	{display.SegD, 0, 2, 1, 2},
	{display.SegE, 0, 1, 0, 2},
	{display.SegF, 0, 0, 0, 1},
	{display.SegG, 0, 1, 1, 1},
}

// displayTime returns the value the box's display is showing for st.
func displayTime(st link.Status) uint16 {
	if st.State == uvbox.StateExposure {
		return st.Remaining
	}
	return st.Duration
}

// formatClock renders seconds as the m:ss readout of the display.
func formatClock(t uint16) string {
	return fmt.Sprintf("%d:%02d", t/60, t%60)
}

// caption summarizes a report for the text line under the digits.
func caption(st link.Status, connected bool) string {
	if !connected {
		return "disconnected"
	}
	switch st.State {
	case uvbox.StateExposure:
		if st.Remaining == 0 {
			return fmt.Sprintf("done %s %s", st.Mode, formatClock(st.Duration))
		}
		return fmt.Sprintf("exposing %s %s left", st.Mode, formatClock(st.Remaining))
	case uvbox.StateSetupMinutes, uvbox.StateSetupSeconds:
		return fmt.Sprintf("set time %s", formatClock(st.Duration))
	}
	return fmt.Sprintf("%s %s %s", st.State, st.Mode, formatClock(st.Duration))
}

// panelRenderer renders the Panel widget.
type panelRenderer struct {
	panel *Panel

	// Background
	bg *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *panelRenderer) MinSize() fyne.Size {
	return fyne.NewSize(280, 200)
}

// Layout arranges the widget components.
func (r *panelRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.bg.Resize(size)

	// Check if size changed
	if r.lastSize.Width != size.Width || r.lastSize.Height != size.Height {
		r.lastSize = size
		// Size changed, trigger widget refresh to redraw with new dimensions
		r.panel.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *panelRenderer) Refresh() {
	r.panel.mu.RLock()
	st := r.panel.st
	connected := r.panel.connected
	r.panel.mu.RUnlock()

	size := r.panel.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	// Clear old objects (but keep background)
	r.objects = []fyne.CanvasObject{r.bg}

	margin := float32(12)
	barH := math32.Max(8, size.Height*0.07)
	stripH := float32(24)

	// UV banks above and below the display, like the box itself.
	top, bottom := st.Mode.Lines()
	r.drawBar(margin, margin, size.Width-2*margin, barH, connected && st.Top)
	r.drawBar(margin, size.Height-margin-barH, size.Width-2*margin, barH, connected && st.Bottom)

	// Digit region between the banks, above the indicator strip.
	regionTop := margin + barH + 8
	regionH := size.Height - margin - barH - stripH - 8 - regionTop
	if regionH > 0 {
		r.drawDigits(st, connected, regionTop, regionH, size.Width)
	}

	// Indicator strip: channel LEDs on the left, caption on the right.
	stripY := size.Height - margin - barH - stripH
	r.drawLED(margin+8, stripY+stripH/2, connected && top, "TOP")
	r.drawLED(margin+68, stripY+stripH/2, connected && bottom, "BOT")

	text := canvas.NewText(caption(st, connected), colorCaption)
	text.TextSize = 12
	text.Alignment = fyne.TextAlignTrailing
	text.Move(fyne.NewPos(size.Width-margin-220, stripY+4))
	text.Resize(fyne.NewSize(220, stripH-4))
	r.objects = append(r.objects, text)
}

// drawBar draws one UV bank.
func (r *panelRenderer) drawBar(x, y, w, h float32, lit bool) {
	c := colorUVOff
	if lit {
		c = colorUVLit
	}
	bar := canvas.NewRectangle(c)
	bar.Move(fyne.NewPos(x, y))
	bar.Resize(fyne.NewSize(w, h))
	r.objects = append(r.objects, bar)
}

// drawDigits draws the three digit cells and the colon dots.
func (r *panelRenderer) drawDigits(st link.Status, connected bool, regionTop, regionH float32, width float32) {
	// Cell layout: minutes digit, colon gap, two seconds digits.
	// Total width is 3.8 segment lengths.
	l := math32.Min((width-48)/3.8, regionH/2.2)
	if l <= 0 {
		return
	}

	x0 := (width - 3.8*l) / 2
	y0 := regionTop + (regionH-2*l)/2
	xs := [display.NumDigits]float32{x0, x0 + 1.5*l, x0 + 2.8*l}

	digits := display.Split(displayTime(st))
	for i := range digits {
		lit := connected && st.Mask&(1<<i) != 0
		r.drawDigit(xs[i], y0, l, display.Glyph(digits[i]), lit)
	}

	// Colon dots between the minutes and seconds digits.
	dotsLit := connected && st.Dots&display.SegDots != 0
	cx := x0 + 1.25*l
	for _, cy := range []float32{y0 + 0.6*l, y0 + 1.4*l} {
		c := colorSegGhost
		if dotsLit {
			c = colorSegLit
		}
		dot := canvas.NewCircle(c)
		rad := math32.Max(2, l*0.08)
		dot.Move(fyne.NewPos(cx-rad, cy-rad))
		dot.Resize(fyne.NewSize(2*rad, 2*rad))
		r.objects = append(r.objects, dot)
	}
}

// drawDigit draws one seven segment cell. A disabled cell shows every
// segment ghosted, the way unlit display glass looks.
func (r *panelRenderer) drawDigit(x, y, l float32, glyph uint8, lit bool) {
	stroke := math32.Max(2, l*0.11)
	for _, seg := range segGeometry {
		c := colorSegGhost
		if lit && glyph&seg.bit != 0 {
			c = colorSegLit
		}
		line := canvas.NewLine(c)
		line.Position1 = fyne.NewPos(x+seg.x1*l, y+seg.y1*l)
		line.Position2 = fyne.NewPos(x+seg.x2*l, y+seg.y2*l)
		line.StrokeWidth = stroke
		r.objects = append(r.objects, line)
	}
}

// drawLED draws one channel indicator with its label.
func (r *panelRenderer) drawLED(x, cy float32, lit bool, label string) {
	c := colorLEDOff
	if lit {
		c = colorLEDLit
	}
	led := canvas.NewCircle(c)
	led.Move(fyne.NewPos(x, cy-6))
	led.Resize(fyne.NewSize(12, 12))
	r.objects = append(r.objects, led)

	text := canvas.NewText(label, colorLabel)
	text.TextSize = 10
	text.Move(fyne.NewPos(x+16, cy-7))
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *panelRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *panelRenderer) Destroy() {
	// Cleanup handled by Fyne
}
