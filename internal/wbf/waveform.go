package wbf

import (
	"fmt"
	"strings"
)

// Waveform stream constants
const (
	MarkerToggle  = 0xFC // Switches between inactive and active entries
	FooterSize    = 2    // Trailing bytes after each waveform block
	PhasesPerByte = 4    // 2-bit phases packed in each control byte
)

// streamState is the state of the waveform stream decoder
type streamState int

const (
	// stateInactive entries are a control byte followed by a repeat count
	stateInactive streamState = iota
	// stateActive entries are a single control byte
	stateActive
)

func (s streamState) String() string {
	switch s {
	case stateInactive:
		return "inactive"
	case stateActive:
		return "active"
	default:
		return fmt.Sprintf("streamState(%d)", int(s))
	}
}

// streamDecoder walks one waveform block. The cursor advances by a
// state-dependent amount per entry and stops at length-1.
type streamDecoder struct {
	stream  []byte
	length  int
	cursor  int
	state   streamState
	toggles int
	control []byte
}

func newStreamDecoder(stream []byte, length int) *streamDecoder {
	return &streamDecoder{
		stream:  stream,
		length:  length,
		state:   stateInactive,
		control: make([]byte, 0, length),
	}
}

func (d *streamDecoder) done() bool {
	return d.cursor >= d.length-1
}

// step consumes one entry at the cursor
func (d *streamDecoder) step() {
	b := d.stream[d.cursor]

	if b == MarkerToggle {
		if d.state == stateActive {
			d.state = stateInactive
		} else {
			d.state = stateActive
		}
		d.toggles++
		d.cursor++
		return
	}

	d.control = append(d.control, b)
	switch d.state {
	case stateActive:
		d.cursor++
	case stateInactive:
		// Repeat count is consumed but not expanded
		d.cursor += 2
	}
}

func (d *streamDecoder) run() []byte {
	for !d.done() {
		d.step()
	}
	return d.control
}

// DecodeControlBytes decodes a complete waveform block (without footer)
// into its control bytes
func DecodeControlBytes(block []byte) []byte {
	return newStreamDecoder(block, len(block)).run()
}

// Phases unpacks the four 2-bit phases of a control byte, lowest bits first
func Phases(c byte) [PhasesPerByte]uint8 {
	var p [PhasesPerByte]uint8
	for k := 0; k < PhasesPerByte; k++ {
		p[k] = (c >> (2 * k)) & 0b11
	}
	return p
}

// ExpandPhases concatenates the phases of each control byte in order
func ExpandPhases(control []byte) []uint8 {
	phases := make([]uint8, 0, len(control)*PhasesPerByte)
	for _, c := range control {
		p := Phases(c)
		phases = append(phases, p[:]...)
	}
	return phases
}

// Waveform is a decoded waveform block
type Waveform struct {
	Address uint32
	Length  int    // Block length in bytes, footer excluded
	Control []byte // Decoded control bytes
	Phases  []uint8
	Toggles int // Number of 0xFC markers seen
}

// Empty reports whether the waveform has no control bytes
func (w *Waveform) Empty() bool {
	return len(w.Control) == 0
}

// Hex returns each control byte as lowercase hex without padding
func (w *Waveform) Hex() []string {
	out := make([]string, len(w.Control))
	for i, c := range w.Control {
		out[i] = fmt.Sprintf("%x", c)
	}
	return out
}

// PhaseGroups returns the phases grouped per control byte
func (w *Waveform) PhaseGroups() [][PhasesPerByte]uint8 {
	groups := make([][PhasesPerByte]uint8, len(w.Control))
	for i, c := range w.Control {
		groups[i] = Phases(c)
	}
	return groups
}

// String returns a short debug representation
func (w *Waveform) String() string {
	hex := w.Hex()
	if len(hex) > 8 {
		hex = append(hex[:8], "...")
	}
	return fmt.Sprintf("Waveform{addr=0x%06x, len=%d, control=%d [%s]}",
		w.Address, w.Length, len(w.Control), strings.Join(hex, " "))
}

// decodeWaveform decodes the block of length bytes at addr in data
func decodeWaveform(data []byte, addr uint32, length int) (*Waveform, error) {
	w := &Waveform{Address: addr, Length: length}
	if length == 0 {
		w.Control = []byte{}
		w.Phases = []uint8{}
		return w, nil
	}

	start := int(addr)
	end := start + length
	if end > len(data) {
		return nil, newTruncated(fmt.Sprintf("waveform at 0x%06x", addr), start, end, len(data))
	}

	d := newStreamDecoder(data[start:end], length)
	w.Control = d.run()
	w.Toggles = d.toggles
	w.Phases = ExpandPhases(w.Control)
	return w, nil
}
