package wbf

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/muurk/epdwave/internal/logging"
)

// Option configures Decode
type Option func(*options)

type options struct {
	maxWaveforms int
	fileSize     int64 // -1 when the on-disk size is unknown
	strict       bool
}

// WithMaxWaveforms sets the capacity of the deduplicated address table
func WithMaxWaveforms(n int) Option {
	return func(o *options) { o.maxWaveforms = n }
}

// WithFileSize supplies the on-disk file size for the consistency check.
// A mismatch with the header is reported as a warning only.
func WithFileSize(n int64) Option {
	return func(o *options) { o.fileSize = n }
}

// WithStrict makes any warning abort the decode with ErrStrict
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// RangeWaveform is the waveform selected for one temperature range of a mode
type RangeWaveform struct {
	Index    int
	Range    TemperatureRange
	Offset   int // Offset of the pointer record
	Record   PointerRecord
	Waveform *Waveform
}

// ModeWaveforms holds the per-range waveforms of one mode
type ModeWaveforms struct {
	Mode   Mode
	Ranges []RangeWaveform
}

// Result is a fully decoded waveform file
type Result struct {
	Header            *Header
	TemperatureRanges []TemperatureRange
	Modes             []ModeWaveforms
	Addresses         *AddressTable
	Waveforms         map[uint32]*Waveform // Keyed by start address
	Warnings          []Warning
}

// HasWarnings reports whether any non-fatal faults were found
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// UniqueWaveforms returns the number of distinct waveform addresses
func (r *Result) UniqueWaveforms() int {
	return r.Addresses.Len()
}

// Mode returns the decoded entry for a mode, if the file declares it
func (r *Result) Mode(id ModeID) (*ModeWaveforms, bool) {
	for i := range r.Modes {
		if r.Modes[i].Mode.ID == id {
			return &r.Modes[i], true
		}
	}
	return nil, false
}

// Waveform returns the waveform for a mode and temperature range index
func (r *Result) Waveform(id ModeID, rangeIndex int) (*Waveform, error) {
	m, ok := r.Mode(id)
	if !ok {
		return nil, fmt.Errorf("mode %s not present in file", id)
	}
	if rangeIndex < 0 || rangeIndex >= len(m.Ranges) {
		return nil, fmt.Errorf("temperature range %d out of bounds (have %d)", rangeIndex, len(m.Ranges))
	}
	return m.Ranges[rangeIndex].Waveform, nil
}

// DecodeFile reads path fully and decodes it, passing the on-disk size
// along for the file size check
func DecodeFile(path string, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open waveform file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat waveform file: %w", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read waveform file: %w", err)
	}

	logging.Info("Loaded waveform file",
		zap.String("path", path),
		zap.Int64("size", info.Size()),
	)

	opts = append([]Option{WithFileSize(info.Size())}, opts...)
	return Decode(data, opts...)
}

// Decode decodes a complete waveform file held in memory.
// data is not modified; the result references slices of it.
func Decode(data []byte, opts ...Option) (*Result, error) {
	o := options{
		maxWaveforms: DefaultMaxWaveforms,
		fileSize:     -1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	res := &Result{
		Addresses: NewAddressTable(o.maxWaveforms),
		Waveforms: make(map[uint32]*Waveform),
	}
	warn := func(w Warning) {
		logging.LogWarning(w.Kind.String(), w.Message, w.Offset, w.Expected, w.Actual)
		res.Warnings = append(res.Warnings, w)
	}

	header, err := ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	res.Header = header

	logging.Debug("Parsed header",
		zap.Uint32("serial", header.Serial),
		zap.Uint32("file_size", header.FileSize),
		zap.Int("modes", header.ModeCount()),
		zap.Int("temperature_ranges", header.RangeCount()),
		zap.Int("header_size", header.Size),
	)

	if o.fileSize >= 0 {
		if o.fileSize == int64(header.FileSize) {
			logging.Info("File size check passed", zap.Int64("size", o.fileSize))
		} else {
			warn(Warning{
				Kind:     WarnFileSizeMismatch,
				Offset:   -1,
				Expected: int64(header.FileSize),
				Actual:   o.fileSize,
				Message:  "on-disk size differs from header",
			})
		}
	}

	res.TemperatureRanges, err = parseTemperatureRanges(data, header)
	if err != nil {
		return nil, fmt.Errorf("failed to parse temperature ranges: %w", err)
	}

	modes, err := parseModeTable(data, header, warn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mode table: %w", err)
	}

	if err := res.resolveAddresses(data, modes, warn); err != nil {
		return nil, fmt.Errorf("failed to resolve waveform addresses: %w", err)
	}

	if err := res.decodeWaveforms(data); err != nil {
		return nil, fmt.Errorf("failed to decode waveforms: %w", err)
	}

	logging.Info("Decoded waveform file",
		zap.Int("modes", len(res.Modes)),
		zap.Int("temperature_ranges", len(res.TemperatureRanges)),
		zap.Int("unique_waveforms", res.UniqueWaveforms()),
		zap.Int("warnings", len(res.Warnings)),
	)

	if o.strict && res.HasWarnings() {
		first := res.Warnings[0]
		return nil, &DecodeError{
			Kind:     ErrKindStrict,
			Message:  fmt.Sprintf("%d warning(s), first: %s", len(res.Warnings), first.Kind),
			Offset:   first.Offset,
			Expected: first.Expected,
			Actual:   first.Actual,
		}
	}

	return res, nil
}

// resolveAddresses reads every mode's temperature pointer table and
// fills the deduplicated address table in first-seen order
func (r *Result) resolveAddresses(data []byte, modes []Mode, warn func(Warning)) error {
	r.Modes = make([]ModeWaveforms, 0, len(modes))

	for _, mode := range modes {
		entry := ModeWaveforms{
			Mode:   mode,
			Ranges: make([]RangeWaveform, 0, len(r.TemperatureRanges)),
		}

		for i, tr := range r.TemperatureRanges {
			offset := int(mode.Address) + i*PointerRecordSize
			rec, err := readPointer(data, offset, fmt.Sprintf("mode %s range %d pointer", mode.Name, i))
			if err != nil {
				return err
			}

			logging.LogAddress(mode.Name, i, offset, rec.Address, rec.Valid())
			if !rec.Valid() {
				warn(checksumWarning(rec, offset, fmt.Sprintf("mode %s range %d pointer", mode.Name, i)))
			}

			if _, err := r.Addresses.Insert(rec.Address); err != nil {
				return err
			}

			entry.Ranges = append(entry.Ranges, RangeWaveform{
				Index:  i,
				Range:  tr,
				Offset: offset,
				Record: rec,
			})
		}

		r.Modes = append(r.Modes, entry)
	}

	return nil
}

// decodeWaveforms decodes each distinct address once and links the
// results to every mode/range that references them
func (r *Result) decodeWaveforms(data []byte) error {
	for _, addr := range r.Addresses.Entries() {
		length := r.Addresses.WaveformLength(addr)
		w, err := decodeWaveform(data, addr, length)
		if err != nil {
			return err
		}

		logging.Debug("Decoded waveform",
			zap.String("address", fmt.Sprintf("0x%06x", addr)),
			zap.Int("length", length),
			zap.Int("control_bytes", len(w.Control)),
			zap.Int("toggles", w.Toggles),
		)
		logging.LogRawBytes("Waveform control bytes", w.Control)

		r.Waveforms[addr] = w
	}

	for m := range r.Modes {
		for i := range r.Modes[m].Ranges {
			rw := &r.Modes[m].Ranges[i]
			w, ok := r.Waveforms[rw.Record.Address]
			if !ok {
				// Address 0 is never tabled; it decodes as empty
				w = &Waveform{Address: rw.Record.Address, Control: []byte{}, Phases: []uint8{}}
				r.Waveforms[rw.Record.Address] = w
			}
			rw.Waveform = w
		}
	}

	return nil
}
