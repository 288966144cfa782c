package panel

import (
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// HoldButton reports press and release instead of taps, for driving the
// box's momentary front panel switches. The hold thresholds live in the
// box; the button only mirrors the physical switch level.
type HoldButton struct {
	widget.Button

	// OnHold is called with true on press and false on release.
	OnHold func(held bool)
}

var _ desktop.Mouseable = (*HoldButton)(nil)

// NewHoldButton creates a new hold button with the given label.
func NewHoldButton(label string, onHold func(held bool)) *HoldButton {
	b := &HoldButton{OnHold: onHold}
	b.Text = label
	b.ExtendBaseWidget(b)
	return b
}

// MouseDown implements desktop.Mouseable.
func (b *HoldButton) MouseDown(ev *desktop.MouseEvent) {
	if b.Disabled() || b.OnHold == nil {
		return
	}
	b.OnHold(true)
}

// MouseUp implements desktop.Mouseable.
func (b *HoldButton) MouseUp(ev *desktop.MouseEvent) {
	if b.Disabled() || b.OnHold == nil {
		return
	}
	b.OnHold(false)
}

// MouseOut releases the hold when the pointer leaves mid-press, so a
// drag off the button cannot leave the switch stuck down.
func (b *HoldButton) MouseOut() {
	b.Button.MouseOut()
	if b.OnHold != nil {
		b.OnHold(false)
	}
}
