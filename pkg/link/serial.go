package link

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/itohio/gouvbox/pkg/display"
	"github.com/itohio/gouvbox/pkg/store"
	"github.com/itohio/gouvbox/pkg/uvbox"
)

const (
	// DefaultBaudRate matches the firmware's USB serial configuration.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the status channel buffer.
	DefaultBufferSize = 100
)

// Status is one state report from the box. The firmware emits a report
// whenever anything visible changes; the simulator does the same.
type Status struct {
	Millis    uint32
	State     uvbox.State
	Mode      uvbox.Mode
	Duration  uint16
	Remaining uint16
	Dots      uint8
	Mask      uint8
	Top       bool // top UV channel driven
	Bottom    bool // bottom UV channel driven
}

// String renders the status in its wire form.
func (s Status) String() string {
	ch := [2]byte{'0', '0'}
	if s.Top {
		ch[0] = '1'
	}
	if s.Bottom {
		ch[1] = '1'
	}
	return fmt.Sprintf("%d,%s,%s,%d,%d,%d,%d,%c%c",
		s.Millis, s.State, s.Mode, s.Duration, s.Remaining, s.Dots, s.Mask, ch[0], ch[1])
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the box over its USB serial port.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	status    chan Status
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial link with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		status:    make(chan Status, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect connects to the serial port and starts reading status reports.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	// Start reading status reports in a goroutine
	go d.readStatus()

	return nil
}

// Close closes the connection and stops reading status reports.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	// Cancel context to stop reading goroutine
	d.cancel()

	// Close serial port
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	// Close status channel
	close(d.status)

	return nil
}

// Status returns the channel for reading status reports.
func (d *Serial) Status() <-chan Status {
	return d.status
}

// IsConnected returns whether the link is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readStatus reads lines from the serial port and parses them into Status.
func (d *Serial) readStatus() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readStatus: %v", r)
		}
	}()

	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				// Scanner stopped (EOF or error)
				if err := scanner.Err(); err != nil {
					if err != io.EOF {
						log.Printf("Error reading from serial port: %v", err)
					}
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			st, err := parseStatus(line)
			if err != nil {
				log.Printf("Failed to parse line '%s': %v", line, err)
				continue
			}

			// Send status to channel (non-blocking)
			select {
			case d.status <- st:
			case <-d.ctx.Done():
				return
			default:
				// Channel full, log and skip
				log.Printf("Status channel full, dropping report")
			}
		}
	}
}

// parseStatus parses a status line from the box.
// Format: millis,state,mode,duration,remaining,dots,mask,channels
// Example: 123456,exposure,both,125,60,255,7,11
func parseStatus(line string) (Status, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 8 {
		return Status{}, fmt.Errorf("invalid line format: expected 8 comma-separated values, got %d", len(parts))
	}

	// Parse uptime (milliseconds since boot)
	millis, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Status{}, fmt.Errorf("invalid millis: %w", err)
	}

	state, err := parseState(parts[1])
	if err != nil {
		return Status{}, err
	}

	mode, err := uvbox.ParseMode(parts[2])
	if err != nil {
		return Status{}, err
	}

	duration, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil {
		return Status{}, fmt.Errorf("invalid duration: %w", err)
	}
	if duration > store.MaxDuration {
		return Status{}, fmt.Errorf("duration out of range: %d (max %d)", duration, store.MaxDuration)
	}

	remaining, err := strconv.ParseUint(parts[4], 10, 16)
	if err != nil {
		return Status{}, fmt.Errorf("invalid remaining: %w", err)
	}
	if remaining > store.MaxDuration {
		return Status{}, fmt.Errorf("remaining out of range: %d (max %d)", remaining, store.MaxDuration)
	}

	dots, err := strconv.ParseUint(parts[5], 10, 8)
	if err != nil {
		return Status{}, fmt.Errorf("invalid dots: %w", err)
	}

	mask, err := strconv.ParseUint(parts[6], 10, 8)
	if err != nil {
		return Status{}, fmt.Errorf("invalid mask: %w", err)
	}
	if mask > uint64(display.AllDigits) {
		return Status{}, fmt.Errorf("mask out of range: %d (max %d)", mask, display.AllDigits)
	}

	// Parse channel states (2 binary flags: top, bottom)
	chStr := parts[7]
	if len(chStr) != 2 {
		return Status{}, fmt.Errorf("invalid channel states: expected 2 digits, got %d", len(chStr))
	}
	for i := 0; i < len(chStr); i++ {
		if chStr[i] != '0' && chStr[i] != '1' {
			return Status{}, fmt.Errorf("invalid channel flag %q", chStr[i])
		}
	}

	return Status{
		Millis:    uint32(millis),
		State:     state,
		Mode:      mode,
		Duration:  uint16(duration),
		Remaining: uint16(remaining),
		Dots:      uint8(dots),
		Mask:      uint8(mask),
		Top:       chStr[0] == '1',
		Bottom:    chStr[1] == '1',
	}, nil
}

// parseState converts the wire form of a controller state.
func parseState(s string) (uvbox.State, error) {
	switch s {
	case "idle":
		return uvbox.StateIdle, nil
	case "setup-minutes":
		return uvbox.StateSetupMinutes, nil
	case "setup-seconds":
		return uvbox.StateSetupSeconds, nil
	case "exposure":
		return uvbox.StateExposure, nil
	}
	return 0, fmt.Errorf("unknown state %q", s)
}
