package export

import (
	"fmt"
	"strings"

	"github.com/muurk/epdwave/internal/wbf"
)

// Summary returns a one-line summary of a decoded file
func Summary(res *wbf.Result) string {
	return fmt.Sprintf("WBF serial %d: %d modes x %d temperature ranges, %d unique waveforms, %d warning(s)",
		res.Header.Serial, len(res.Modes), len(res.TemperatureRanges), res.UniqueWaveforms(), len(res.Warnings))
}

// FormatRanges returns the temperature ranges as a compact list
func FormatRanges(res *wbf.Result) string {
	parts := make([]string, len(res.TemperatureRanges))
	for i, tr := range res.TemperatureRanges {
		parts[i] = fmt.Sprintf("%d:%d-%d", i, tr.Lower, tr.Upper)
	}
	return strings.Join(parts, " ")
}

// FormatModeTable returns one line per mode with its per-range control byte counts
func FormatModeTable(res *wbf.Result) string {
	var b strings.Builder

	b.WriteString("=== Modes ===\n")
	for _, mw := range res.Modes {
		counts := make([]string, len(mw.Ranges))
		for i, rw := range mw.Ranges {
			n := 0
			if rw.Waveform != nil {
				n = len(rw.Waveform.Control)
			}
			counts[i] = fmt.Sprintf("%d", n)
		}
		b.WriteString(fmt.Sprintf("%-10s @ 0x%06x  bytes/range: %s\n",
			mw.Mode.Name, mw.Mode.Address, strings.Join(counts, " ")))
	}

	return b.String()
}

// FormatWarnings returns the warnings one per line, or "(none)"
func FormatWarnings(res *wbf.Result) string {
	if !res.HasWarnings() {
		return "(none)\n"
	}
	var b strings.Builder
	for _, w := range res.Warnings {
		b.WriteString(w.String())
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRows renders phase rows as space separated digits, one row per line
func FormatRows(rows []Row) string {
	var b strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&b, "%4d  ", i)
		for j, p := range row {
			if j > 0 && j%4 == 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%d", p)
		}
		b.WriteString("\n")
	}
	return b.String()
}
