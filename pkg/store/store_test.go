package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadFresh(t *testing.T) {
	// Erased storage reads as all bits set, which is out of range and
	// must load as the default.
	s := New(NewBuffer())
	d, err := s.Load()
	assert.NoError(t, err)
	assert.Equal(t, uint16(DefaultDuration), d)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		seconds uint16
	}{
		{"zero", 0},
		{"default", 30},
		{"two minutes five", 125},
		{"maximum", 599},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(NewBuffer())
			require.NoError(t, s.Save(tt.seconds))

			d, err := s.Load()
			assert.NoError(t, err)
			assert.Equal(t, tt.seconds, d)
		})
	}
}

func TestStore_CorruptLoadsDefault(t *testing.T) {
	tests := []struct {
		name string
		raw  uint16
	}{
		{"just out of range", 600},
		{"out of range", 700},
		{"erased", 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer()
			s := New(buf)
			require.NoError(t, s.Save(tt.raw))

			d, err := s.Load()
			assert.NoError(t, err)
			assert.Equal(t, uint16(DefaultDuration), d)

			// The corrupt value is corrected in memory only, never
			// rewritten.
			var raw [2]byte
			_, err = buf.ReadAt(raw[:], 0)
			require.NoError(t, err)
			again, err := s.Load()
			assert.NoError(t, err)
			assert.Equal(t, uint16(DefaultDuration), again)
			var after [2]byte
			_, err = buf.ReadAt(after[:], 0)
			require.NoError(t, err)
			assert.Equal(t, raw, after, "stored bytes must stay untouched")
		})
	}
}

func TestStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uvbox.eeprom")

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	s := New(f)
	require.NoError(t, s.Save(125))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d, err := New(f).Load()
	assert.NoError(t, err)
	assert.Equal(t, uint16(125), d)
}

func TestStore_EmptyFileLoadsDefault(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "uvbox-*.eeprom")
	require.NoError(t, err)
	defer f.Close()

	d, err := New(f).Load()
	assert.Error(t, err, "short read surfaces so hosts can log it")
	assert.Equal(t, uint16(DefaultDuration), d)
}

func TestBuffer_Bounds(t *testing.T) {
	b := NewBuffer()

	var p [4]byte
	n, err := b.ReadAt(p[:], 0)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = b.ReadAt(p[:1], 4)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = b.WriteAt([]byte{1, 2, 3}, 0)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	n, err = b.WriteAt([]byte{1}, -1)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}
