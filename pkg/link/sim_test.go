package link

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gouvbox/pkg/button"
	"github.com/itohio/gouvbox/pkg/config"
	"github.com/itohio/gouvbox/pkg/store"
	"github.com/itohio/gouvbox/pkg/uvbox"
)

// awaitStatus reads reports until match returns true or a timeout
// expires.
func awaitStatus(t *testing.T, ch <-chan Status, match func(Status) bool) Status {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case st, ok := <-ch:
			require.True(t, ok, "status channel closed while waiting")
			if match(st) {
				return st
			}
		case <-deadline:
			t.Fatal("timed out waiting for status")
			return Status{}
		}
	}
}

// TestSim_GracefulShutdown tests that the simulated box closes its
// status channel when Close() is called.
func TestSim_GracefulShutdown(t *testing.T) {
	sim := NewSim(&config.SimConfig{Mode: "top", Speed: 500})
	require.NoError(t, sim.Connect())

	status := sim.Status()

	// The boot report arrives without any input.
	st := awaitStatus(t, status, func(Status) bool { return true })
	assert.Equal(t, uvbox.StateIdle, st.State)
	assert.Equal(t, uint16(store.DefaultDuration), st.Duration)
	assert.False(t, st.Top)

	// Holding Start walks the box into an exposure and produces more
	// reports along the way.
	require.NoError(t, sim.SetButton(button.Start, true))
	awaitStatus(t, status, func(st Status) bool { return st.State == uvbox.StateExposure })
	require.NoError(t, sim.SetButton(button.Start, false))
	awaitStatus(t, status, func(st Status) bool { return st.Top })

	require.NoError(t, sim.Close())
	assert.False(t, sim.IsConnected())

	// Drain whatever was buffered; the channel must close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range status {
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Status channel did not close within timeout")
	}
}

// TestSim_Reconnect runs two connect and close cycles on one Sim. Each
// session gets its own channels and delivers its own boot report.
func TestSim_Reconnect(t *testing.T) {
	sim := NewSim(&config.SimConfig{Mode: "top", Speed: 500})

	for cycle := 0; cycle < 2; cycle++ {
		require.NoError(t, sim.Connect(), "cycle %d", cycle)
		status := sim.Status()

		st := awaitStatus(t, status, func(Status) bool { return true })
		assert.Equal(t, uvbox.StateIdle, st.State, "cycle %d", cycle)
		assert.Equal(t, uvbox.ModeTop, st.Mode, "cycle %d", cycle)

		require.NoError(t, sim.Close(), "cycle %d", cycle)
		assert.False(t, sim.IsConnected())

		// Close already closed this session's channel; drain what was
		// buffered.
		for range status {
		}
	}
}

func TestSim_SetButtonRequiresConnection(t *testing.T) {
	sim := NewSim(nil)
	assert.Error(t, sim.SetButton(button.Start, true))

	// An empty store path keeps the box in memory.
	sim = NewSim(&config.SimConfig{Mode: "top", Speed: 1})
	require.NoError(t, sim.Connect())
	defer sim.Close()
	assert.NoError(t, sim.SetButton(button.Start, true))
}

func TestSim_InvalidMode(t *testing.T) {
	sim := NewSim(&config.SimConfig{Mode: "sideways", Speed: 1})
	assert.Error(t, sim.Connect())
	assert.False(t, sim.IsConnected())
}

// TestSim_SetupPersistsToFile edits the duration through the front
// panel buttons and verifies the committed value lands in the store
// file.
func TestSim_SetupPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uvbox.eeprom")
	sim := NewSim(&config.SimConfig{Mode: "both", Speed: 500, StorePath: path})
	require.NoError(t, sim.Connect())

	status := sim.Status()

	// A fresh store boots with the default duration.
	st := awaitStatus(t, status, func(Status) bool { return true })
	assert.Equal(t, uint16(store.DefaultDuration), st.Duration)

	// Hold Mode until setup opens, then let go.
	require.NoError(t, sim.SetButton(button.Mode, true))
	awaitStatus(t, status, func(st Status) bool { return st.State == uvbox.StateSetupMinutes })
	require.NoError(t, sim.SetButton(button.Mode, false))
	time.Sleep(50 * time.Millisecond)

	// One Start press: 0:30 becomes 1:xx in the edit buffer.
	require.NoError(t, sim.SetButton(button.Start, true))
	awaitStatus(t, status, func(st Status) bool { return st.Duration == 60 })
	require.NoError(t, sim.SetButton(button.Start, false))
	time.Sleep(50 * time.Millisecond)

	// Move to the seconds stage, which restores the stored seconds.
	require.NoError(t, sim.SetButton(button.Mode, true))
	awaitStatus(t, status, func(st Status) bool { return st.State == uvbox.StateSetupSeconds })
	require.NoError(t, sim.SetButton(button.Mode, false))
	time.Sleep(50 * time.Millisecond)

	// Commit the edit: 1:30.
	require.NoError(t, sim.SetButton(button.Mode, true))
	st = awaitStatus(t, status, func(st Status) bool { return st.State == uvbox.StateIdle })
	assert.Equal(t, uint16(90), st.Duration)
	require.NoError(t, sim.SetButton(button.Mode, false))

	// The release that ends the commit leaves the channel mode alone.
	st = awaitStatus(t, status, func(st Status) bool { return st.Mask != 0 })
	assert.Equal(t, uvbox.ModeBoth, st.Mode)

	require.NoError(t, sim.Close())

	// The committed duration survives in the file.
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d, err := store.New(f).Load()
	require.NoError(t, err)
	assert.Equal(t, uint16(90), d)
}
