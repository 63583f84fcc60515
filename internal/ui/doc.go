// Package ui renders the styled terminal output of the epdwave CLI.
//
// Components follow a "run once and exit" pattern built on Lip Gloss and
// Bubble Tea:
//
//   - Header: command banner with ordered parameters
//   - Result: success, warning or failure box, with troubleshooting tips
//   - Tables: header fields and the mode by temperature range grid
//   - Phase rows: colored phase digits for a single waveform
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Waveform Decode", "epdwave decode panel.wbf",
//	    ui.Param{Key: "Strict", Value: "false"})
//	p.PrintResult(ui.DecodeResult(path, res))
//
// Logging stays silent unless EPDWAVE_LOG_LEVEL is set, so these components
// are the only thing written to the terminal by default.
package ui
