package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"github.com/itohio/gouvbox/pkg/button"
	"github.com/itohio/gouvbox/pkg/panel"
)

// createFrontButtons builds the Start and Mode hold buttons that stand in
// for the physical front panel switches. They stay disabled on a serial
// connection, which is monitor only.
func createFrontButtons(state *appState) fyne.CanvasObject {
	startBtn := panel.NewHoldButton("Start", func(held bool) {
		handleFrontButton(state, button.Start, held)
	})
	startBtn.Disable()
	state.startBtn = startBtn

	modeBtn := panel.NewHoldButton("Mode", func(held bool) {
		handleFrontButton(state, button.Mode, held)
	})
	modeBtn.Disable()
	state.modeBtn = modeBtn

	return container.NewGridWithColumns(2, startBtn, modeBtn)
}

// handleFrontButton forwards a press or release to the simulated box.
func handleFrontButton(state *appState, b button.Buttons, held bool) {
	if state.sim == nil || !state.sim.IsConnected() {
		return
	}

	if err := state.sim.SetButton(b, held); err != nil {
		dialog.ShowError(fmt.Errorf("failed to set button state: %w", err), state.window)
	}
}
