package store

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// MaxDuration is the largest representable exposure duration in
	// seconds (9:59 on the three-digit display).
	MaxDuration = 599
	// DefaultDuration substitutes for missing or out-of-range stored
	// values.
	DefaultDuration = 30

	// The duration lives as one native-endian word at the start of the
	// backing storage.
	durationOffset = 0
	durationSize   = 2
)

// Storage is the non-volatile backing device: an I2C EEPROM on the
// box, a file or in-memory buffer on the host.
type Storage interface {
	io.ReaderAt
	io.WriterAt
}

// Store persists the configured exposure duration across power cycles.
type Store struct {
	dev Storage
}

// New returns a Store over dev.
func New(dev Storage) *Store {
	return &Store{dev: dev}
}

// Load reads the stored duration. Values outside [0, MaxDuration] are
// treated as corrupt and replaced by DefaultDuration in the returned
// value only; the stored bytes are left untouched. On a read error the
// default is returned along with the error so callers can continue.
func (s *Store) Load() (uint16, error) {
	var buf [durationSize]byte
	if _, err := s.dev.ReadAt(buf[:], durationOffset); err != nil {
		return DefaultDuration, fmt.Errorf("failed to read duration: %w", err)
	}

	d := binary.NativeEndian.Uint16(buf[:])
	if d > MaxDuration {
		d = DefaultDuration
	}
	return d, nil
}

// Save writes the duration. The write may block; persistence is not
// latency-sensitive.
func (s *Store) Save(seconds uint16) error {
	var buf [durationSize]byte
	binary.NativeEndian.PutUint16(buf[:], seconds)
	if _, err := s.dev.WriteAt(buf[:], durationOffset); err != nil {
		return fmt.Errorf("failed to write duration: %w", err)
	}
	return nil
}

// Buffer is an in-memory Storage whose fresh state reads like erased
// EEPROM (all bits set), so an unwritten store loads as the default.
type Buffer struct {
	b [durationSize]byte
}

var _ Storage = (*Buffer)(nil)

// NewBuffer returns an erased Buffer.
func NewBuffer() *Buffer {
	var buf Buffer
	for i := range buf.b {
		buf.b[i] = 0xFF
	}
	return &buf
}

// ReadAt implements io.ReaderAt.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.b)) {
		return 0, io.EOF
	}
	n := copy(p, b.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.b)) {
		return 0, io.ErrShortWrite
	}
	n := copy(b.b[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
