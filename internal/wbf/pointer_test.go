package wbf

import (
	"testing"

	"github.com/muurk/epdwave/internal/wbf/wbftest"
)

func TestParsePointerRecord(t *testing.T) {
	addrs := []uint32{0x000000, 0x000001, 0x00FFFF, 0x010000, 0x123456, 0xFFFFFF}

	for _, addr := range addrs {
		rec, err := ParsePointerRecord(wbftest.Pointer(addr))
		if err != nil {
			t.Fatalf("ParsePointerRecord(0x%06x) error = %v", addr, err)
		}
		if rec.Address != addr {
			t.Errorf("Address = 0x%06x, want 0x%06x", rec.Address, addr)
		}
		if !rec.Valid() {
			t.Errorf("record for 0x%06x reported checksum fault: %s", addr, rec)
		}
	}
}

func TestParsePointerRecord_ChecksumBitFlip(t *testing.T) {
	for bit := 0; bit < 8; bit++ {
		raw := wbftest.Pointer(0x0ABCDE)
		raw[3] ^= 1 << bit

		rec, err := ParsePointerRecord(raw)
		if err != nil {
			t.Fatalf("ParsePointerRecord() error = %v", err)
		}
		if rec.Address != 0x0ABCDE {
			t.Errorf("bit %d: Address = 0x%06x, want 0x0abcde", bit, rec.Address)
		}
		if rec.Valid() {
			t.Errorf("bit %d: expected checksum fault", bit)
		}
	}
}

func TestParsePointerRecord_Layout(t *testing.T) {
	// low 16 bits little-endian, then high byte
	rec, err := ParsePointerRecord([]byte{0x34, 0x12, 0x56, 0x9C})
	if err != nil {
		t.Fatalf("ParsePointerRecord() error = %v", err)
	}
	if rec.Address != 0x561234 {
		t.Errorf("Address = 0x%06x, want 0x561234", rec.Address)
	}
	if !rec.Valid() {
		t.Errorf("checksum 0x9c should be valid, computed 0x%02x", rec.Computed)
	}
}

func TestParsePointerRecord_TooShort(t *testing.T) {
	if _, err := ParsePointerRecord([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for 3-byte record")
	}
}

func TestChecksum_Wraparound(t *testing.T) {
	tests := []struct {
		b0, b1, b2 uint8
		want       uint8
	}{
		{0, 0, 0, 0},
		{1, 2, 3, 6},
		{0xFF, 0x01, 0x00, 0x00},
		{0xFF, 0xFF, 0xFF, 0xFD},
		{0x80, 0x80, 0x01, 0x01},
	}

	for _, tt := range tests {
		if got := Checksum(tt.b0, tt.b1, tt.b2); got != tt.want {
			t.Errorf("Checksum(0x%02x, 0x%02x, 0x%02x) = 0x%02x, want 0x%02x",
				tt.b0, tt.b1, tt.b2, got, tt.want)
		}
	}
}
