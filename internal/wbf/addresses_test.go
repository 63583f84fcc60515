package wbf

import (
	"errors"
	"testing"
)

func TestAddressTable_Dedup(t *testing.T) {
	table := NewAddressTable(8)

	added, err := table.Insert(0x1000)
	if err != nil || !added {
		t.Fatalf("first Insert() = %v, %v, want true, nil", added, err)
	}
	added, err = table.Insert(0x1000)
	if err != nil || added {
		t.Fatalf("duplicate Insert() = %v, %v, want false, nil", added, err)
	}

	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestAddressTable_PreservesInsertionOrder(t *testing.T) {
	table := NewAddressTable(0)
	for _, a := range []uint32{0x300, 0x100, 0x300, 0x200, 0x100} {
		if _, err := table.Insert(a); err != nil {
			t.Fatalf("Insert(0x%x) error = %v", a, err)
		}
	}

	want := []uint32{0x300, 0x100, 0x200}
	got := table.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %x, want %x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = 0x%x, want 0x%x", i, got[i], want[i])
		}
	}

	if table.Cap() != DefaultMaxWaveforms {
		t.Errorf("Cap() = %d, want %d", table.Cap(), DefaultMaxWaveforms)
	}
}

func TestAddressTable_Full(t *testing.T) {
	const capacity = 16
	table := NewAddressTable(capacity)

	for i := 1; i <= capacity; i++ {
		if _, err := table.Insert(uint32(i * 0x10)); err != nil {
			t.Fatalf("Insert #%d error = %v", i, err)
		}
	}

	// Duplicates are still accepted at capacity
	if _, err := table.Insert(0x10); err != nil {
		t.Errorf("duplicate Insert at capacity error = %v", err)
	}

	_, err := table.Insert(0xFFFF)
	if !errors.Is(err, ErrAddressTableFull) {
		t.Fatalf("Insert beyond capacity error = %v, want ErrAddressTableFull", err)
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatal("expected *DecodeError")
	}
	if decErr.Expected != capacity || decErr.Actual != capacity+1 {
		t.Errorf("error bounds = %d/%d, want %d/%d", decErr.Expected, decErr.Actual, capacity, capacity+1)
	}
}

func TestAddressTable_ZeroAddressIgnored(t *testing.T) {
	table := NewAddressTable(4)
	added, err := table.Insert(0)
	if err != nil || added {
		t.Errorf("Insert(0) = %v, %v, want false, nil", added, err)
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
	if table.WaveformLength(0) != 0 {
		t.Errorf("WaveformLength(0) = %d, want 0", table.WaveformLength(0))
	}
}

func TestAddressTable_WaveformLength(t *testing.T) {
	table := NewAddressTable(0)
	for _, a := range []uint32{0x100, 0x120, 0x121, 0x200, 0x150} {
		if _, err := table.Insert(a); err != nil {
			t.Fatalf("Insert error = %v", err)
		}
	}

	tests := []struct {
		addr     uint32
		wantSpan int
		wantLen  int
	}{
		{0x100, 0x20, 0x1E},
		{0x120, 1, 0}, // shorter than footer
		{0x121, 0xDF, 0xDD},
		{0x200, 0, 0}, // next entry is lower
		{0x150, 0, 0}, // last entry
		{0x999, 0, 0}, // not present
	}

	for _, tt := range tests {
		if got := table.Span(tt.addr); got != tt.wantSpan {
			t.Errorf("Span(0x%x) = %d, want %d", tt.addr, got, tt.wantSpan)
		}
		if got := table.WaveformLength(tt.addr); got != tt.wantLen {
			t.Errorf("WaveformLength(0x%x) = %d, want %d", tt.addr, got, tt.wantLen)
		}
	}
}
