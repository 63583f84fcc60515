// Package wbf decodes electrophoretic-display waveform files (WBF).
//
// A WBF file packs, for every display update mode and temperature range, a
// stream of per-pixel drive instructions ("phases"). The streams are reached
// through two layers of checksummed pointer tables and are stored with a
// small toggling run-length encoding.
//
// # File Layout
//
//   - Bytes 0-47: fixed little-endian header (file size, serial, counts)
//   - Bytes 48..: temperature boundaries, one byte each (TRC+2 values)
//   - XWIA: length-prefixed extra info area; the mode table starts at
//     XWIA + length + 2
//   - Mode table: one 4-byte pointer record per mode (MC+1 records)
//   - Per mode: one 4-byte pointer record per temperature range (TRC+1)
//   - Waveform blocks: contiguous, ascending, each followed by a 2-byte footer
//
// # Pointer Records
//
// Every table entry is 4 bytes: a 16-bit little-endian low address part, an
// 8-bit high part and an 8-bit checksum equal to the sum of the first three
// bytes modulo 256. Checksum mismatches are reported as warnings; the address
// is still used.
//
// # Waveform Streams
//
// The format carries no per-waveform length. Lengths are recovered from the
// deduplicated address table: a waveform ends where the next distinct address
// begins, minus the footer. The stream itself alternates between two states:
//   - Inactive (initial): each entry is a control byte plus a repeat count
//   - Active: each entry is a single control byte
//
// The marker byte 0xFC switches state. Each control byte packs four 2-bit
// phases, lowest bits first.
//
// # Usage Example
//
//	res, err := wbf.DecodeFile("panel.wbf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println("warning:", w)
//	}
//	fmt.Printf("%d modes, %d unique waveforms\n", len(res.Modes), res.UniqueWaveforms())
//
// # Error Handling
//
// Structural problems (short header, unknown mode, address table overflow,
// reads past the end of the buffer) abort decoding with a *DecodeError.
// Checksum faults and file size mismatches are collected in Result.Warnings.
// With WithStrict any warning turns into a fatal error.
package wbf
