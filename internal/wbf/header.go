package wbf

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Header layout constants
const (
	HeaderSize             = 48         // Fixed header length in bytes
	TemperatureTableOffset = HeaderSize // Temperature boundaries follow the header
	infoAreaTrailer        = 2          // Length byte plus trailing checksum byte
)

// Header holds the fixed 48-byte WBF header and the values derived from it.
// All multi-byte fields are little-endian.
type Header struct {
	Checksum     uint32 // [0-3]
	FileSize     uint32 // [4-7] Declared total file size
	Serial       uint32 // [8-11]
	RunType      uint8  // [12]
	FPLPlatform  uint8  // [13]
	FPLLot       uint16 // [14-15]
	ModeVersion  uint8  // [16]
	WFVersion    uint8  // [17]
	WFSubversion uint8  // [18]
	WFType       uint8  // [19]
	FPLSize      uint8  // [20]
	MfgCode      uint8  // [21]
	WFMRev       uint8  // [22]
	FrameRate    uint8  // [23] BCD-ish, printed as hex
	Unknown1     uint8  // [24]
	VCOMOffset   uint8  // [25]
	Unknown2     uint16 // [26-27]
	XWIA1        uint8  // [28] Extra info address, low byte
	XWIA2        uint8  // [29]
	XWIA3        uint8  // [30] Extra info address, high byte
	CS1          uint8  // [31]
	WMTA1        uint8  // [32]
	WMTA2        uint8  // [33]
	WMTA3        uint8  // [34]
	FVSN         uint8  // [35]
	LUTS         uint8  // [36]
	MC           uint8  // [37] Mode count minus one
	TRC          uint8  // [38] Temperature range count minus one
	Flags        uint8  // [39]
	EB           uint8  // [40]
	SB           uint8  // [41]
	Reserved     [5]uint8
	CS2          uint8 // [47]

	// Derived values
	XWIA       uint32 // 24-bit extra info address
	XWIALength uint8  // Length byte found at XWIA
	Size       int    // HDR_SIZE: XWIA + XWIALength + 2, start of the mode table
	Info       []byte // Extra info bytes (may be shorter than XWIALength if truncated)
}

// ParseHeader decodes the fixed header and locates the mode table.
// data must be the complete file; the extra info area is read from it.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, newMalformedHeader("buffer shorter than header", 0, HeaderSize, int64(len(data)))
	}

	h := &Header{
		Checksum:     binary.LittleEndian.Uint32(data[0:4]),
		FileSize:     binary.LittleEndian.Uint32(data[4:8]),
		Serial:       binary.LittleEndian.Uint32(data[8:12]),
		RunType:      data[12],
		FPLPlatform:  data[13],
		FPLLot:       binary.LittleEndian.Uint16(data[14:16]),
		ModeVersion:  data[16],
		WFVersion:    data[17],
		WFSubversion: data[18],
		WFType:       data[19],
		FPLSize:      data[20],
		MfgCode:      data[21],
		WFMRev:       data[22],
		FrameRate:    data[23],
		Unknown1:     data[24],
		VCOMOffset:   data[25],
		Unknown2:     binary.LittleEndian.Uint16(data[26:28]),
		XWIA1:        data[28],
		XWIA2:        data[29],
		XWIA3:        data[30],
		CS1:          data[31],
		WMTA1:        data[32],
		WMTA2:        data[33],
		WMTA3:        data[34],
		FVSN:         data[35],
		LUTS:         data[36],
		MC:           data[37],
		TRC:          data[38],
		Flags:        data[39],
		EB:           data[40],
		SB:           data[41],
		CS2:          data[47],
	}
	copy(h.Reserved[:], data[42:47])

	h.XWIA = uint32(h.XWIA3)<<16 | uint32(h.XWIA2)<<8 | uint32(h.XWIA1)
	if int(h.XWIA) >= len(data) {
		return nil, newMalformedHeader("extra info address outside buffer", 28, int64(len(data)-1), int64(h.XWIA))
	}

	h.XWIALength = data[h.XWIA]
	h.Size = int(h.XWIA) + int(h.XWIALength) + infoAreaTrailer

	infoStart := int(h.XWIA) + 1
	infoEnd := infoStart + int(h.XWIALength)
	if infoEnd > len(data) {
		infoEnd = len(data)
	}
	h.Info = data[infoStart:infoEnd]

	return h, nil
}

// ModeCount returns the number of modes declared by the header
func (h *Header) ModeCount() int { return int(h.MC) + 1 }

// RangeCount returns the number of temperature ranges declared by the header
func (h *Header) RangeCount() int { return int(h.TRC) + 1 }

// BitsPerPixel returns 5 for 5-bit LUT files and 4 otherwise
func (h *Header) BitsPerPixel() int {
	if h.LUTS&0x0C == 0x04 {
		return 5
	}
	return 4
}

// HeaderField is a single named header value, formatted for display
type HeaderField struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Fields returns the header values in file order, formatted for display.
// Hex-valued fields keep a 0x prefix; frame rate is shown as stored.
func (h *Header) Fields() []HeaderField {
	return []HeaderField{
		{"Checksum", fmt.Sprintf("%d", h.Checksum)},
		{"File Size", fmt.Sprintf("%d", h.FileSize)},
		{"Serial", fmt.Sprintf("%d", h.Serial)},
		{"Run Type", fmt.Sprintf("0x%x", h.RunType)},
		{"FPL Platform", fmt.Sprintf("%d", h.FPLPlatform)},
		{"FPL Lot", fmt.Sprintf("%d", h.FPLLot)},
		{"Mode Version", fmt.Sprintf("%d", h.ModeVersion)},
		{"WF Version", fmt.Sprintf("%d", h.WFVersion)},
		{"WF Subversion", fmt.Sprintf("%d", h.WFSubversion)},
		{"WF Type", fmt.Sprintf("0x%x", h.WFType)},
		{"FPL Size", fmt.Sprintf("%d", h.FPLSize)},
		{"MFG Code", fmt.Sprintf("%d", h.MfgCode)},
		{"WFM Rev", fmt.Sprintf("%d", h.WFMRev)},
		{"Frame Rate", fmt.Sprintf("%x Hz", h.FrameRate)},
		{"VCOM Offset", fmt.Sprintf("%d", h.VCOMOffset)},
		{"XWIA", fmt.Sprintf("%d (length %d)", h.XWIA, h.XWIALength)},
		{"CS1", fmt.Sprintf("0x%x", h.CS1)},
		{"FVSN", fmt.Sprintf("0x%x", h.FVSN)},
		{"LUTS", fmt.Sprintf("0x%x", h.LUTS)},
		{"MC", fmt.Sprintf("%d (mode count)", h.MC)},
		{"TRC", fmt.Sprintf("%d (temperature range count)", h.TRC)},
		{"Flags", fmt.Sprintf("%d", h.Flags)},
		{"EB", fmt.Sprintf("0x%x", h.EB)},
		{"SB", fmt.Sprintf("0x%x", h.SB)},
		{"Reserved", fmt.Sprintf("% x", h.Reserved[:])},
		{"CS2", fmt.Sprintf("0x%x", h.CS2)},
		{"Bits Per Pixel", fmt.Sprintf("%d", h.BitsPerPixel())},
		{"Modes", fmt.Sprintf("%d", h.ModeCount())},
		{"Temperature Ranges", fmt.Sprintf("%d", h.RangeCount())},
		{"Header Size", fmt.Sprintf("%d", h.Size)},
	}
}

// String returns a multi-line summary of the header
func (h *Header) String() string {
	var b strings.Builder
	for _, f := range h.Fields() {
		fmt.Fprintf(&b, "%-20s %s\n", f.Name+":", f.Value)
	}
	return b.String()
}
