package export

import (
	"strings"

	"github.com/muurk/epdwave/internal/wbf"
)

// RowWidth is the number of phases per exported row
const RowWidth = 16

// Row is one line of phases: four control bytes, four phases each
type Row [RowWidth]uint8

// Document is the exported form of a waveform file
type Document struct {
	TemperatureRanges TemperatureRanges `json:"temperature_ranges" yaml:"temperature_ranges"`
	Modes             []ModeEntry       `json:"modes" yaml:"modes"`
}

// TemperatureRanges wraps the list of range boundaries
type TemperatureRanges struct {
	RangeBounds []RangeBound `json:"range_bounds" yaml:"range_bounds"`
}

// RangeBound is a half-open temperature interval in Celsius
type RangeBound struct {
	From uint8 `json:"from" yaml:"from"`
	To   uint8 `json:"to" yaml:"to"`
}

// ModeEntry holds the per-range phase rows of one mode
type ModeEntry struct {
	Mode   string       `json:"mode" yaml:"mode"`
	Ranges []RangeEntry `json:"ranges" yaml:"ranges"`
}

// RangeEntry holds the phase rows for one temperature range
type RangeEntry struct {
	Index  int   `json:"index" yaml:"index"`
	Phases []Row `json:"phases" yaml:"phases"`
}

// Option configures Build
type Option func(*buildOptions)

type buildOptions struct {
	modes map[wbf.ModeID]bool
}

// WithModes restricts the document to the given modes.
// With no modes given every mode is exported.
func WithModes(modes ...wbf.ModeID) Option {
	return func(o *buildOptions) {
		if len(modes) == 0 {
			return
		}
		o.modes = make(map[wbf.ModeID]bool, len(modes))
		for _, m := range modes {
			o.modes[m] = true
		}
	}
}

// ParseModeList parses a comma separated list of mode names, e.g. "GC16,DU"
func ParseModeList(list string) ([]wbf.ModeID, error) {
	var ids []wbf.ModeID
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id, err := wbf.ParseModeName(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (o *buildOptions) include(id wbf.ModeID) bool {
	return o.modes == nil || o.modes[id]
}

// Build produces the document for a decoded file
func Build(res *wbf.Result, opts ...Option) *Document {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc := &Document{
		TemperatureRanges: TemperatureRanges{
			RangeBounds: make([]RangeBound, 0, len(res.TemperatureRanges)),
		},
		Modes: make([]ModeEntry, 0, len(res.Modes)),
	}

	for _, tr := range res.TemperatureRanges {
		doc.TemperatureRanges.RangeBounds = append(doc.TemperatureRanges.RangeBounds,
			RangeBound{From: tr.Lower, To: tr.Upper})
	}

	for _, mw := range res.Modes {
		if !o.include(mw.Mode.ID) {
			continue
		}

		entry := ModeEntry{
			Mode:   mw.Mode.Name,
			Ranges: make([]RangeEntry, 0, len(mw.Ranges)),
		}
		for _, rw := range mw.Ranges {
			var phases []uint8
			if rw.Waveform != nil {
				phases = rw.Waveform.Phases
			}
			entry.Ranges = append(entry.Ranges, RangeEntry{
				Index:  rw.Index,
				Phases: Rows(phases),
			})
		}
		doc.Modes = append(doc.Modes, entry)
	}

	return doc
}

// Rows cuts a phase sequence into rows of RowWidth, zero padding the last
func Rows(phases []uint8) []Row {
	rows := make([]Row, 0, (len(phases)+RowWidth-1)/RowWidth)
	for start := 0; start < len(phases); start += RowWidth {
		var row Row
		copy(row[:], phases[start:min(start+RowWidth, len(phases))])
		rows = append(rows, row)
	}
	return rows
}

// Mode returns the entry for a mode name
func (d *Document) Mode(name string) (*ModeEntry, bool) {
	for i := range d.Modes {
		if d.Modes[i].Mode == name {
			return &d.Modes[i], true
		}
	}
	return nil, false
}

// RowCount returns the total number of phase rows in the document
func (d *Document) RowCount() int {
	total := 0
	for _, m := range d.Modes {
		for _, r := range m.Ranges {
			total += len(r.Phases)
		}
	}
	return total
}
