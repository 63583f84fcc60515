package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/wbf"
)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 0 {
				return TableMutedCellStyle
			}
			return TableCellStyle
		})
}

// RenderHeaderTable renders every header field as a two-column table
func RenderHeaderTable(h *wbf.Header) string {
	t := newTable().Headers("Field", "Value")
	for _, f := range h.Fields() {
		t.Row(f.Name, f.Value)
	}
	return t.Render()
}

// RenderModeTable renders one row per mode with the control byte count of
// each temperature range
func RenderModeTable(res *wbf.Result) string {
	headers := []string{"Mode", "Address"}
	for _, tr := range res.TemperatureRanges {
		headers = append(headers, tr.String())
	}

	t := newTable().Headers(headers...)
	for _, mw := range res.Modes {
		row := []string{mw.Mode.Name, fmt.Sprintf("0x%06x", mw.Mode.Address)}
		for _, rw := range mw.Ranges {
			cell := "-"
			if rw.Waveform != nil && !rw.Waveform.Empty() {
				cell = fmt.Sprintf("%d", len(rw.Waveform.Control))
			}
			if !rw.Record.Valid() {
				cell += " " + WarningMarker
			}
			row = append(row, cell)
		}
		t.Row(row...)
	}
	return t.Render()
}

// RenderPhaseRows renders rows of phases as colored digit groups, numbering
// them from start
func RenderPhaseRows(rows []export.Row, start int) string {
	if len(rows) == 0 {
		return TroubleshootingItemStyle.Render("  (empty waveform)")
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(TableMutedCellStyle.Render(fmt.Sprintf("%4d", start+i)))
		for j, p := range row {
			if j%4 == 0 {
				b.WriteString(" ")
			}
			b.WriteString(RenderPhase(p))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DecodeResult builds the result box shown after a decode
func DecodeResult(path string, res *wbf.Result) *Result {
	details := []Param{
		{Key: "File", Value: path},
		{Key: "Serial", Value: fmt.Sprintf("%d", res.Header.Serial)},
		{Key: "Modes", Value: fmt.Sprintf("%d", len(res.Modes))},
		{Key: "Temperatures", Value: export.FormatRanges(res)},
		{Key: "Unique waveforms", Value: fmt.Sprintf("%d", res.UniqueWaveforms())},
	}

	if !res.HasWarnings() {
		return NewSuccessResult("Waveform file decoded", details...)
	}

	notes := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		notes[i] = w.String()
	}
	return NewWarningResult(fmt.Sprintf("Decoded with %d warning(s)", len(res.Warnings)), notes, details...)
}
