package wbf

import (
	"fmt"
	"strings"
)

// ModeID identifies a display update mode
type ModeID uint8

// Known update modes, by their index in the mode table
const (
	ModeInit     ModeID = iota // INIT: full clear
	ModeDU                     // DU: fast monochrome
	ModeGC16                   // GC16: full 16-level grayscale
	ModeGC16Fast               // GC16_FAST
	ModeA2                     // A2: fast binary animation
	ModeGL16                   // GL16: grayscale on white background
	ModeGL16Fast               // GL16_FAST
	ModeDU4                    // DU4: fast 4-level
	ModeREAGL                  // REAGL: ghost reduction
	ModeREAGLD                 // REAGLD: ghost reduction with dithering
	ModeGL4                    // GL4
	ModeGL16Inv                // GL16_INV: inverted GL16
)

// modeNames maps each ModeID to its canonical name
var modeNames = [...]string{
	ModeInit:     "INIT",
	ModeDU:       "DU",
	ModeGC16:     "GC16",
	ModeGC16Fast: "GC16_FAST",
	ModeA2:       "A2",
	ModeGL16:     "GL16",
	ModeGL16Fast: "GL16_FAST",
	ModeDU4:      "DU4",
	ModeREAGL:    "REAGL",
	ModeREAGLD:   "REAGLD",
	ModeGL4:      "GL4",
	ModeGL16Inv:  "GL16_INV",
}

// KnownModes is the number of modes in the closed set
const KnownModes = len(modeNames)

// Valid reports whether m is one of the known modes
func (m ModeID) Valid() bool {
	return int(m) < KnownModes
}

// String returns the canonical mode name
func (m ModeID) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
	return modeNames[m]
}

// ModeFromIndex maps a mode table index to its ModeID
func ModeFromIndex(index int) (ModeID, error) {
	if index < 0 || index >= KnownModes {
		return 0, &DecodeError{
			Kind:     ErrKindUnknownMode,
			Message:  fmt.Sprintf("mode index %d is not a known update mode", index),
			Offset:   -1,
			Expected: int64(KnownModes - 1),
			Actual:   int64(index),
		}
	}
	return ModeID(index), nil
}

// ParseModeName looks up a mode by name, case-insensitively
func ParseModeName(name string) (ModeID, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == upper {
			return ModeID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// AllModes returns every known mode in index order
func AllModes() []ModeID {
	modes := make([]ModeID, KnownModes)
	for i := range modes {
		modes[i] = ModeID(i)
	}
	return modes
}

// Mode is a decoded mode table entry
type Mode struct {
	ID      ModeID
	Name    string
	Address uint32 // Base address of this mode's temperature pointer table
	Record  PointerRecord
}

// parseModeTable reads MC+1 pointer records starting at the end of the info area
func parseModeTable(data []byte, h *Header, warn func(Warning)) ([]Mode, error) {
	modes := make([]Mode, 0, h.ModeCount())

	for i := 0; i < h.ModeCount(); i++ {
		offset := h.Size + i*PointerRecordSize

		id, err := ModeFromIndex(i)
		if err != nil {
			if decErr, ok := err.(*DecodeError); ok {
				decErr.Offset = offset
			}
			return nil, err
		}

		rec, err := readPointer(data, offset, fmt.Sprintf("mode table entry %d", i))
		if err != nil {
			return nil, err
		}
		if !rec.Valid() {
			warn(checksumWarning(rec, offset, fmt.Sprintf("mode %s pointer", id)))
		}

		modes = append(modes, Mode{
			ID:      id,
			Name:    id.String(),
			Address: rec.Address,
			Record:  rec,
		})
	}

	return modes, nil
}
