package uvbox

import (
	"fmt"
	"strings"
)

// Mode selects which UV channel an exposure drives.
type Mode uint8

const (
	// ModeTop drives the lid bank only.
	ModeTop Mode = iota
	// ModeBottom drives the tray bank only.
	ModeBottom
	// ModeBoth drives both banks for double sided boards.
	ModeBoth

	numModes
)

// Next cycles Top, Bottom, Both and back to Top.
func (m Mode) Next() Mode {
	return (m + 1) % numModes
}

// Lines reports which channels the mode selects.
func (m Mode) Lines() (top, bottom bool) {
	return m == ModeTop || m == ModeBoth, m == ModeBottom || m == ModeBoth
}

func (m Mode) String() string {
	switch m {
	case ModeTop:
		return "top"
	case ModeBottom:
		return "bottom"
	case ModeBoth:
		return "both"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode converts a config string into a Mode. Matching is case
// insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "top":
		return ModeTop, nil
	case "bottom":
		return ModeBottom, nil
	case "both":
		return ModeBoth, nil
	}
	return ModeTop, fmt.Errorf("unknown mode %q", s)
}
