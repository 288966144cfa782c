package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gouvbox/pkg/uvbox"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Status
		wantErr bool
	}{
		{
			name: "idle",
			line: "1024,idle,top,125,0,255,7,00",
			want: Status{
				Millis:   1024,
				State:    uvbox.StateIdle,
				Mode:     uvbox.ModeTop,
				Duration: 125,
				Dots:     255,
				Mask:     7,
			},
			wantErr: false,
		},
		{
			name: "exposure - both channels",
			line: "123456,exposure,both,125,60,255,7,11",
			want: Status{
				Millis:    123456,
				State:     uvbox.StateExposure,
				Mode:      uvbox.ModeBoth,
				Duration:  125,
				Remaining: 60,
				Dots:      255,
				Mask:      7,
				Top:       true,
				Bottom:    true,
			},
			wantErr: false,
		},
		{
			name: "exposure - bottom only, dots dark",
			line: "2000,exposure,bottom,30,29,0,7,01",
			want: Status{
				Millis:    2000,
				State:     uvbox.StateExposure,
				Mode:      uvbox.ModeBottom,
				Duration:  30,
				Remaining: 29,
				Mask:      7,
				Bottom:    true,
			},
			wantErr: false,
		},
		{
			name: "setup - blank half of the blink",
			line: "500,setup-minutes,top,120,0,255,0,00",
			want: Status{
				Millis:   500,
				State:    uvbox.StateSetupMinutes,
				Mode:     uvbox.ModeTop,
				Duration: 120,
				Dots:     255,
			},
			wantErr: false,
		},
		{
			name: "setup seconds",
			line: "600,setup-seconds,top,145,0,255,1,00",
			want: Status{
				Millis:   600,
				State:    uvbox.StateSetupSeconds,
				Mode:     uvbox.ModeTop,
				Duration: 145,
				Dots:     255,
				Mask:     1,
			},
			wantErr: false,
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "1024,idle,top,125,0,255,7",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1024,idle,top,125,0,255,7,00,extra",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric millis",
			line:    "abc,idle,top,125,0,255,7,00",
			wantErr: true,
		},
		{
			name:    "invalid - unknown state",
			line:    "1024,warmup,top,125,0,255,7,00",
			wantErr: true,
		},
		{
			name:    "invalid - unknown mode",
			line:    "1024,idle,sideways,125,0,255,7,00",
			wantErr: true,
		},
		{
			name:    "invalid - duration out of range",
			line:    "1024,idle,top,600,0,255,7,00",
			wantErr: true,
		},
		{
			name:    "invalid - remaining out of range",
			line:    "1024,exposure,top,599,600,255,7,11",
			wantErr: true,
		},
		{
			name:    "invalid - mask out of range",
			line:    "1024,idle,top,125,0,255,8,00",
			wantErr: true,
		},
		{
			name:    "invalid - channel states wrong length",
			line:    "1024,idle,top,125,0,255,7,0",
			wantErr: true,
		},
		{
			name:    "invalid - channel states wrong length 2",
			line:    "1024,idle,top,125,0,255,7,000",
			wantErr: true,
		},
		{
			name:    "invalid - channel states not binary",
			line:    "1024,exposure,both,125,60,255,7,xy",
			wantErr: true,
		},
		{
			name:    "invalid - channel state digit out of range",
			line:    "1024,idle,top,125,0,255,7,20",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStatus(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.line, got.String(), "wire form round-trips")
			}
		})
	}
}

func TestNew(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.NotNil(t, dev)
	assert.Equal(t, "COM3", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.NotNil(t, dev.status)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("COM3", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}
