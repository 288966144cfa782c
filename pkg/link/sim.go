package link

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/itohio/gouvbox/pkg/button"
	"github.com/itohio/gouvbox/pkg/clock"
	"github.com/itohio/gouvbox/pkg/config"
	"github.com/itohio/gouvbox/pkg/store"
	"github.com/itohio/gouvbox/pkg/uvbox"
)

// simTick is the real time pacing of the simulation loop. Each tick
// runs a batch of 1 ms control cycles sized by the configured speed.
const simTick = 10 * time.Millisecond

// pad is a thread safe button.Reader driven from the UI.
type pad struct {
	mu  sync.Mutex
	cur button.Buttons
}

func (p *pad) ReadButtons() button.Buttons {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

func (p *pad) set(b button.Buttons, held bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if held {
		p.cur |= b
	} else {
		p.cur &^= b
	}
}

// Sim runs the exposure box control loop against simulated hardware,
// standing in for a box on the bench. Button input arrives through
// SetButton instead of GPIO lines and status reports are delivered the
// same way the serial link delivers them.
type Sim struct {
	cfg   *config.SimConfig
	speed float64

	status    chan Status
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool

	pad     pad
	clk     *clock.Manual
	buttons *button.Debouncer
	ctl     *uvbox.Controller
	file    *os.File

	primed  bool
	lastKey Status
}

// NewSim creates a new simulated box instance.
func NewSim(cfg *config.SimConfig) *Sim {
	if cfg == nil {
		def := config.Default().Sim
		cfg = &def
	}

	speed := cfg.Speed
	if speed <= 0 {
		speed = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sim{
		cfg:       cfg,
		speed:     speed,
		status:    make(chan Status, DefaultBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		connected: false,
	}
}

// Connect builds the simulated box and starts its control loop.
func (s *Sim) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	// A previous session cancelled the context and closed the done and
	// status channels. Reconnecting starts over with fresh ones.
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
		s.done = make(chan struct{})
		s.status = make(chan Status, DefaultBufferSize)
		s.primed = false
	}

	mode, err := uvbox.ParseMode(s.cfg.Mode)
	if err != nil {
		return fmt.Errorf("invalid sim mode: %w", err)
	}

	// An empty store path selects a throwaway in-memory EEPROM.
	var backend store.Storage = store.NewBuffer()
	if s.cfg.StorePath != "" {
		f, err := os.OpenFile(s.cfg.StorePath, os.O_RDWR|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("failed to open store %s: %w", s.cfg.StorePath, err)
		}
		s.file = f
		backend = f
	}

	st := store.New(backend)
	duration, err := st.Load()
	if err != nil {
		log.Printf("Failed to load duration, using default: %v", err)
	}

	s.clk = &clock.Manual{}
	s.buttons = button.NewDebouncer(&s.pad, s.clk)
	s.ctl = uvbox.New(uvbox.Config{
		Store:    st,
		Duration: duration,
		Mode:     mode,
		OnSaveError: func(err error) {
			log.Printf("Failed to persist duration: %v", err)
		},
	})

	s.connected = true

	go s.run()

	return nil
}

// Close stops the control loop and releases the store.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	// Stop the loop and wait for it, so no send can race the close.
	s.cancel()
	<-s.done

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			log.Printf("Error closing store file: %v", err)
		}
		s.file = nil
	}

	s.connected = false

	close(s.status)

	return nil
}

// Status returns the channel for reading status reports.
func (s *Sim) Status() <-chan Status {
	return s.status
}

// IsConnected returns whether the simulated box is running.
func (s *Sim) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// SetButton presses or releases a front panel button.
func (s *Sim) SetButton(b button.Buttons, held bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return fmt.Errorf("not connected")
	}

	s.pad.set(b, held)

	return nil
}

// run paces the control loop in real time.
func (s *Sim) run() {
	defer close(s.done)

	ticker := time.NewTicker(simTick)
	defer ticker.Stop()

	var carry float64
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			carry += simTick.Seconds() * 1000 * s.speed
			steps := int(carry)
			carry -= float64(steps)
			for i := 0; i < steps; i++ {
				s.cycle()
			}
		}
	}
}

// cycle runs one 1 ms control cycle and reports the result when the
// visible state changed.
func (s *Sim) cycle() {
	s.clk.Advance(1)
	in := s.buttons.Poll()
	out := s.ctl.Step(s.clk.Now(), in)

	st := Status{
		Millis:    s.clk.Now(),
		State:     s.ctl.State(),
		Mode:      s.ctl.Mode(),
		Duration:  s.ctl.Duration(),
		Remaining: s.ctl.Remaining(),
		Dots:      out.Dots,
		Mask:      out.Mask,
		Top:       out.UVTop,
		Bottom:    out.UVBottom,
	}

	// The clock alone does not make a report; compare with the
	// timestamp masked off.
	key := st
	key.Millis = 0
	if s.primed && key == s.lastKey {
		return
	}
	s.primed = true
	s.lastKey = key

	// Send status to channel (non-blocking)
	select {
	case s.status <- st:
	case <-s.ctx.Done():
	default:
		// Channel full, log and skip
		log.Printf("Status channel full, dropping report")
	}
}
