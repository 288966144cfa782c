package panel

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gouvbox/pkg/link"
)

// Panel is a custom Fyne widget that mirrors the front of the exposure
// box: the three digit display with its blinking dots, the UV banks and
// the channel indicator LEDs.
type Panel struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu        sync.RWMutex
	st        link.Status
	connected bool
}

// New creates a new Panel instance.
func New() *Panel {
	p := &Panel{}
	p.ExtendBaseWidget(p)
	// Trigger initial refresh to display the disconnected panel
	p.Refresh()
	return p
}

// UpdateStatus updates the panel with a new box report.
// This should be called from the status consumer using fyne.Do().
func (p *Panel) UpdateStatus(st link.Status) {
	p.mu.Lock()
	p.st = st
	p.connected = true
	p.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	p.Refresh()
}

// Clear returns the panel to its disconnected look.
func (p *Panel) Clear() {
	p.mu.Lock()
	p.st = link.Status{}
	p.connected = false
	p.mu.Unlock()

	p.Refresh()
}

// CreateRenderer creates the widget renderer.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 18, G: 18, B: 22, A: 255})
	return &panelRenderer{
		panel:    p,
		bg:       bg,
		objects:  []fyne.CanvasObject{bg},
		lastSize: fyne.Size{Width: 0, Height: 0},
	}
}
