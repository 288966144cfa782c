package main

import (
	"flag"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gouvbox/pkg/config"
	"github.com/itohio/gouvbox/pkg/link"
	"github.com/itohio/gouvbox/pkg/panel"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		simFlag    = flag.Bool("sim", false, "Use a simulated box instead of a serial port")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.gouvbox")

	// Create main window
	window := application.NewWindow("UV Exposure Box")
	window.Resize(fyne.NewSize(520, 420))
	window.CenterOnScreen()

	// Create application state
	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		window:     window,
		useSim:     *simFlag,
	}

	// Create toolbar
	toolbar := createToolbar(state)

	// Create the front panel mirror widget
	panelWidget := panel.New()
	state.panel = panelWidget

	// Create the Start and Mode buttons below the panel
	buttons := createFrontButtons(state)

	window.SetContent(container.NewBorder(
		toolbar,
		buttons,
		nil,
		nil,
		panelWidget,
	))

	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	device     link.Device
	sim        *link.Sim // non-nil while connected to a simulated box
	panel      *panel.Panel
	window     fyne.Window
	connectBtn *widget.Button
	startBtn   *panel.HoldButton
	modeBtn    *panel.HoldButton
	useSim     bool

	consumerDone chan struct{} // closed when the status consumer exits
}

// createToolbar creates the application toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	// Connect button with icon
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	// Settings button with icon
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		nil, // right
		nil, // center (spacer)
	)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		disconnect(state)
	} else {
		connect(state)
	}
}

// connect builds the configured link and starts the status consumer.
func connect(state *appState) {
	var device link.Device
	if state.useSim {
		sim := link.NewSim(&state.cfg.Sim)
		state.sim = sim
		device = sim
		fmt.Println("Using simulated box")
	} else {
		device = link.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, link.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		state.sim = nil
		if state.useSim {
			dialog.ShowError(fmt.Errorf("failed to start simulated box: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device
	if state.useSim {
		fmt.Println("Connected to simulated box")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	// The physical box has its own switches; only the simulated one
	// takes input from the app.
	if state.sim != nil {
		state.startBtn.Enable()
		state.modeBtn.Enable()
	}

	// Consume status reports until the link closes its channel
	done := make(chan struct{})
	state.consumerDone = done
	status := device.Status()
	go func() {
		defer close(done)
		for st := range status {
			// Update panel on main thread
			fyne.Do(func() {
				state.panel.UpdateStatus(st)
			})
		}
		// Channel closed: show the disconnected panel
		fyne.Do(func() {
			state.panel.Clear()
		})
	}()
}

// disconnect tears the link down and waits for the status consumer.
func disconnect(state *appState) {
	if state.device == nil {
		return
	}

	state.device.Close()
	if state.consumerDone != nil {
		<-state.consumerDone
		state.consumerDone = nil
	}
	state.device = nil
	state.sim = nil

	state.startBtn.Disable()
	state.modeBtn.Disable()

	if state.useSim {
		fmt.Println("Disconnected from simulated box")
	} else {
		fmt.Println("Disconnected from serial port")
	}
}
