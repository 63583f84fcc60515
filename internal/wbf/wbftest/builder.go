// Package wbftest builds synthetic waveform files for tests.
package wbftest

import (
	"encoding/binary"
	"fmt"
)

// Builder describes a synthetic waveform file.
//
// Modes[m][r] is an index into Waveforms selecting the block for mode m and
// temperature range r, or -1 for a null pointer. Blocks are laid out in
// Waveforms order, each followed by a two byte footer. Because lengths are
// inferred from the next distinct address, the last referenced block always
// decodes empty.
type Builder struct {
	Serial       uint32
	FileSize     uint32 // Zero means the built length
	LUTS         uint8
	FrameRate    uint8
	Info         []byte
	Temperatures []uint8 // TRC+2 boundaries
	Waveforms    [][]byte
	Modes        [][]int

	BadModeChecksums  []int    // Mode table entries to corrupt
	BadRangeChecksums [][2]int // {mode, range} entries to corrupt
}

// Layout records where the builder placed each structure
type Layout struct {
	XWIA          int
	HeaderSize    int
	ModeTable     int
	RangeTables   []int
	WaveformAddrs []uint32
	Size          int
}

// Build returns the encoded file and its layout
func (b *Builder) Build() ([]byte, Layout, error) {
	if len(b.Temperatures) < 2 {
		return nil, Layout{}, fmt.Errorf("need at least 2 temperature boundaries, got %d", len(b.Temperatures))
	}
	if len(b.Modes) == 0 {
		return nil, Layout{}, fmt.Errorf("need at least one mode")
	}
	ranges := len(b.Temperatures) - 1
	for m, row := range b.Modes {
		if len(row) != ranges {
			return nil, Layout{}, fmt.Errorf("mode %d has %d ranges, want %d", m, len(row), ranges)
		}
	}

	var l Layout
	l.XWIA = 48 + len(b.Temperatures)
	l.HeaderSize = l.XWIA + len(b.Info) + 2
	l.ModeTable = l.HeaderSize

	cursor := l.ModeTable + len(b.Modes)*4
	for range b.Modes {
		l.RangeTables = append(l.RangeTables, cursor)
		cursor += ranges * 4
	}
	for _, w := range b.Waveforms {
		l.WaveformAddrs = append(l.WaveformAddrs, uint32(cursor))
		cursor += len(w) + 2
	}
	l.Size = cursor

	buf := make([]byte, l.Size)

	fileSize := b.FileSize
	if fileSize == 0 {
		fileSize = uint32(l.Size)
	}
	binary.LittleEndian.PutUint32(buf[4:8], fileSize)
	binary.LittleEndian.PutUint32(buf[8:12], b.Serial)
	buf[23] = b.FrameRate
	buf[28] = byte(l.XWIA)
	buf[29] = byte(l.XWIA >> 8)
	buf[30] = byte(l.XWIA >> 16)
	buf[36] = b.LUTS
	buf[37] = byte(len(b.Modes) - 1)
	buf[38] = byte(ranges - 1)

	copy(buf[48:], b.Temperatures)
	buf[l.XWIA] = byte(len(b.Info))
	copy(buf[l.XWIA+1:], b.Info)

	for m := range b.Modes {
		PutPointer(buf[l.ModeTable+m*4:], uint32(l.RangeTables[m]))
	}
	for _, m := range b.BadModeChecksums {
		buf[l.ModeTable+m*4+3] ^= 0x01
	}

	for m, row := range b.Modes {
		for r, idx := range row {
			var addr uint32
			if idx >= 0 {
				addr = l.WaveformAddrs[idx]
			}
			PutPointer(buf[l.RangeTables[m]+r*4:], addr)
		}
	}
	for _, mr := range b.BadRangeChecksums {
		buf[l.RangeTables[mr[0]]+mr[1]*4+3] ^= 0x01
	}

	for i, w := range b.Waveforms {
		start := int(l.WaveformAddrs[i])
		copy(buf[start:], w)
		buf[start+len(w)] = 0xAA
		buf[start+len(w)+1] = 0x55
	}

	return buf, l, nil
}

// MustBuild is Build for tests that construct known-good layouts
func (b *Builder) MustBuild() ([]byte, Layout) {
	buf, l, err := b.Build()
	if err != nil {
		panic(err)
	}
	return buf, l
}

// PutPointer writes a pointer record with a correct checksum
func PutPointer(dst []byte, addr uint32) {
	dst[0] = byte(addr)
	dst[1] = byte(addr >> 8)
	dst[2] = byte(addr >> 16)
	dst[3] = dst[0] + dst[1] + dst[2]
}

// Pointer returns a 4-byte pointer record with a correct checksum
func Pointer(addr uint32) []byte {
	b := make([]byte, 4)
	PutPointer(b, addr)
	return b
}

// Sample returns a small two-mode, two-range file whose first three
// waveforms decode to known control bytes:
//
//	INIT range 0 -> [05 09]      (waveform 0)
//	INIT range 1 -> [11 22 33]   (waveform 1)
//	DU   range 0 -> [05 09]      (waveform 0, shared)
//	DU   range 1 -> empty        (waveform 2, last block)
func Sample() *Builder {
	return &Builder{
		Serial:       123456,
		FrameRate:    0x85,
		Info:         []byte("ED060SCT"),
		Temperatures: []uint8{0, 25, 50},
		Waveforms: [][]byte{
			{0x05, 0x02, 0xFC, 0x09, 0xFC, 0xFC, 0xFC},
			{0xFC, 0x11, 0x22, 0x33, 0xFC},
			{0x00, 0x00},
		},
		Modes: [][]int{
			{0, 1},
			{0, 2},
		},
	}
}
