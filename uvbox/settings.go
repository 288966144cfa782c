package main

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gouvbox/pkg/link"
)

// showSettingsDialog displays the settings dialog with tabs for serial
// and simulator configuration.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createSimTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(480, 360))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(480, 360))
	d.Show()
}

// createSerialTab creates the serial port configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available ports
	ports, err := link.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {})
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected // Fallback to selected text
			}

			portChanged := state.cfg.Serial.Port != selectedPort
			wasConnected := state.device != nil && state.device.IsConnected()

			state.cfg.Serial.Port = selectedPort
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				state.cfg.Serial.BaudRate = baud
			}

			if err := state.cfg.Save(state.configPath); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
				return
			}

			// Reconnect the live serial link when its port moved
			if portChanged && wasConnected && !state.useSim {
				disconnect(state)
				connect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createSimTab creates the simulator configuration tab. Changes apply on
// the next simulated connection.
func createSimTab(state *appState) *container.TabItem {
	modeSelect := widget.NewSelect([]string{"top", "bottom", "both"}, func(string) {})
	modeSelect.SetSelected(state.cfg.Sim.Mode)

	speedEntry := widget.NewEntry()
	speedEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Sim.Speed))

	storeEntry := widget.NewEntry()
	storeEntry.SetText(state.cfg.Sim.StorePath)
	storeEntry.SetPlaceHolder("empty for in-memory")

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Boot Mode", Widget: modeSelect},
			{Text: "Speed", Widget: speedEntry},
			{Text: "Store Path", Widget: storeEntry},
		},
		OnSubmit: func() {
			if modeSelect.Selected != "" {
				state.cfg.Sim.Mode = modeSelect.Selected
			}
			if speed, err := strconv.ParseFloat(speedEntry.Text, 64); err == nil && speed > 0 {
				state.cfg.Sim.Speed = speed
			}
			state.cfg.Sim.StorePath = storeEntry.Text

			if err := state.cfg.Save(state.configPath); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Simulator", form)
}
