package wbf

import "fmt"

// DefaultMaxWaveforms is the default capacity of the address table
const DefaultMaxWaveforms = 4096

// AddressTable is an insertion-ordered set of distinct waveform addresses
// with a fixed capacity. Waveform blocks are stored contiguously in
// ascending order, so the entry after an address marks where it ends.
//
// Address 0 is treated as "no waveform": it is never stored and has no length.
type AddressTable struct {
	entries  []uint32
	index    map[uint32]int
	capacity int
}

// NewAddressTable creates an empty table. A non-positive capacity selects
// DefaultMaxWaveforms.
func NewAddressTable(capacity int) *AddressTable {
	if capacity <= 0 {
		capacity = DefaultMaxWaveforms
	}
	return &AddressTable{
		entries:  make([]uint32, 0, min(capacity, 256)),
		index:    make(map[uint32]int),
		capacity: capacity,
	}
}

// Insert appends addr unless it is already present.
// Returns true if the address was added.
func (t *AddressTable) Insert(addr uint32) (bool, error) {
	if addr == 0 {
		return false, nil
	}
	if _, exists := t.index[addr]; exists {
		return false, nil
	}
	if len(t.entries) >= t.capacity {
		return false, &DecodeError{
			Kind:     ErrKindAddressTableFull,
			Message:  fmt.Sprintf("cannot add waveform address 0x%06x", addr),
			Offset:   -1,
			Expected: int64(t.capacity),
			Actual:   int64(len(t.entries) + 1),
		}
	}

	t.index[addr] = len(t.entries)
	t.entries = append(t.entries, addr)
	return true, nil
}

// Len returns the number of distinct addresses
func (t *AddressTable) Len() int { return len(t.entries) }

// Cap returns the table capacity
func (t *AddressTable) Cap() int { return t.capacity }

// Entries returns a copy of the addresses in first-seen order
func (t *AddressTable) Entries() []uint32 {
	out := make([]uint32, len(t.entries))
	copy(out, t.entries)
	return out
}

// Position returns the slot of addr in insertion order
func (t *AddressTable) Position(addr uint32) (int, bool) {
	pos, ok := t.index[addr]
	return pos, ok
}

// Span returns the distance from addr to the next entry, footer included.
// It is 0 when addr is absent, last, or followed by a lower address.
func (t *AddressTable) Span(addr uint32) int {
	pos, ok := t.index[addr]
	if !ok || pos+1 >= len(t.entries) {
		return 0
	}
	next := t.entries[pos+1]
	if next < addr {
		return 0
	}
	return int(next - addr)
}

// WaveformLength returns the byte length of the waveform at addr,
// excluding its footer
func (t *AddressTable) WaveformLength(addr uint32) int {
	length := t.Span(addr) - FooterSize
	if length < 0 {
		return 0
	}
	return length
}
