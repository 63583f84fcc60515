package export

import (
	"fmt"

	"github.com/muurk/epdwave/internal/wbf"
)

// RawDocument exposes addresses, lengths and per-byte values for debugging
type RawDocument struct {
	Serial    uint32    `json:"serial" yaml:"serial"`
	FileSize  uint32    `json:"file_size" yaml:"file_size"`
	Unique    int       `json:"unique_waveforms" yaml:"unique_waveforms"`
	Modes     []RawMode `json:"modes" yaml:"modes"`
	Addresses []string  `json:"addresses" yaml:"addresses"`
	Warnings  []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RawMode is one mode with its pointer and per-range waveforms
type RawMode struct {
	Mode    string     `json:"mode" yaml:"mode"`
	Index   int        `json:"index" yaml:"index"`
	Address string     `json:"address" yaml:"address"`
	Ranges  []RawRange `json:"ranges" yaml:"ranges"`
}

// RawRange is the waveform selected for one temperature range
type RawRange struct {
	Index       int        `json:"index" yaml:"index"`
	Range       string     `json:"range" yaml:"range"`
	Address     string     `json:"address" yaml:"address"`
	ChecksumOK  bool       `json:"checksum_ok" yaml:"checksum_ok"`
	Length      int        `json:"length" yaml:"length"`
	WaveformHex []string   `json:"waveform_hex" yaml:"waveform_hex"`
	PhaseGroups [][4]uint8 `json:"phases" yaml:"phases"`
}

// BuildRaw produces the debugging document for a decoded file
func BuildRaw(res *wbf.Result, opts ...Option) *RawDocument {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc := &RawDocument{
		Serial:   res.Header.Serial,
		FileSize: res.Header.FileSize,
		Unique:   res.UniqueWaveforms(),
		Modes:    make([]RawMode, 0, len(res.Modes)),
	}

	for _, addr := range res.Addresses.Entries() {
		doc.Addresses = append(doc.Addresses, fmt.Sprintf("0x%06x", addr))
	}
	for _, w := range res.Warnings {
		doc.Warnings = append(doc.Warnings, w.String())
	}

	for _, mw := range res.Modes {
		if !o.include(mw.Mode.ID) {
			continue
		}

		rm := RawMode{
			Mode:    mw.Mode.Name,
			Index:   int(mw.Mode.ID),
			Address: fmt.Sprintf("0x%06x", mw.Mode.Address),
			Ranges:  make([]RawRange, 0, len(mw.Ranges)),
		}
		for _, rw := range mw.Ranges {
			rr := RawRange{
				Index:      rw.Index,
				Range:      rw.Range.String(),
				Address:    fmt.Sprintf("0x%06x", rw.Record.Address),
				ChecksumOK: rw.Record.Valid(),
			}
			if rw.Waveform != nil {
				rr.Length = rw.Waveform.Length
				rr.WaveformHex = rw.Waveform.Hex()
				rr.PhaseGroups = rw.Waveform.PhaseGroups()
			}
			rm.Ranges = append(rm.Ranges, rr)
		}
		doc.Modes = append(doc.Modes, rm)
	}

	return doc
}
