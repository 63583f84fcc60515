// Package export turns a decoded waveform file into the document consumed
// by display firmware tooling.
//
// The document lists the temperature range boundaries and, per mode and
// range, the phase sequence cut into rows of 16 phases (four control bytes
// per row). A short final row is zero padded.
//
//	{
//	  "temperature_ranges": {"range_bounds": [{"from": 0, "to": 25}, ...]},
//	  "modes": [
//	    {"mode": "INIT", "ranges": [{"index": 0, "phases": [[...16 values...]]}]}
//	  ]
//	}
//
// Documents encode to JSON or YAML. A raw variant keeps addresses, lengths
// and per-byte hex for debugging.
package export
