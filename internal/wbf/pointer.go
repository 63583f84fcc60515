package wbf

import (
	"encoding/binary"
	"fmt"
)

// PointerRecordSize is the size of a checksummed pointer record in bytes
const PointerRecordSize = 4

// PointerRecord is a 24-bit address followed by an 8-bit checksum.
//
//	[0-1] address low 16 bits (little-endian)
//	[2]   address high 8 bits
//	[3]   checksum: (b0 + b1 + b2) mod 256
type PointerRecord struct {
	Address  uint32
	Checksum uint8 // Checksum stored in the record
	Computed uint8 // Checksum computed from the first three bytes
}

// Checksum sums three bytes with 8-bit wraparound
func Checksum(b0, b1, b2 uint8) uint8 {
	var sum uint8
	sum += b0
	sum += b1
	sum += b2
	return sum
}

// ParsePointerRecord decodes a pointer record from the first four bytes of b
func ParsePointerRecord(b []byte) (PointerRecord, error) {
	if len(b) < PointerRecordSize {
		return PointerRecord{}, fmt.Errorf("pointer record too short: %d bytes (minimum %d)", len(b), PointerRecordSize)
	}

	low := binary.LittleEndian.Uint16(b[0:2])
	return PointerRecord{
		Address:  uint32(b[2])<<16 | uint32(low),
		Checksum: b[3],
		Computed: Checksum(b[0], b[1], b[2]),
	}, nil
}

// Valid reports whether the stored checksum matches the computed one
func (p PointerRecord) Valid() bool {
	return p.Checksum == p.Computed
}

// String returns a debug representation of the record
func (p PointerRecord) String() string {
	status := "ok"
	if !p.Valid() {
		status = fmt.Sprintf("bad, computed 0x%02x", p.Computed)
	}
	return fmt.Sprintf("Pointer{addr=0x%06x, checksum=0x%02x (%s)}", p.Address, p.Checksum, status)
}

// readPointer reads the record at offset, failing if it extends past data
func readPointer(data []byte, offset int, what string) (PointerRecord, error) {
	if offset < 0 || offset+PointerRecordSize > len(data) {
		return PointerRecord{}, newTruncated(what, offset, offset+PointerRecordSize, len(data))
	}
	return ParsePointerRecord(data[offset : offset+PointerRecordSize])
}

// checksumWarning builds the warning reported for a record with a bad checksum
func checksumWarning(p PointerRecord, offset int, context string) Warning {
	return Warning{
		Kind:     WarnChecksumFault,
		Offset:   offset,
		Expected: int64(p.Computed),
		Actual:   int64(p.Checksum),
		Message:  context,
	}
}
