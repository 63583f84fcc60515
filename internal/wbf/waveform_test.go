package wbf

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeControlBytes(t *testing.T) {
	tests := []struct {
		name  string
		block []byte
		want  []byte
	}{
		{
			name:  "inactive then active then inactive",
			block: []byte{0x05, 0x02, 0xFC, 0x09, 0xFC, 0x07, 0x01},
			want:  []byte{0x05, 0x09, 0x07},
		},
		{
			name:  "empty toggle pair",
			block: []byte{0x05, 0x02, 0xFC, 0x09, 0xFC, 0xFC, 0xFC},
			want:  []byte{0x05, 0x09},
		},
		{
			name:  "repeat count is skipped even when it equals the marker",
			block: []byte{0x01, 0xFC, 0x02, 0x03, 0x00},
			want:  []byte{0x01, 0x02},
		},
		{
			name:  "active run",
			block: []byte{0xFC, 0x10, 0x20, 0x30, 0x40, 0x00},
			want:  []byte{0x10, 0x20, 0x30, 0x40},
		},
		{
			name:  "last byte is never an entry",
			block: []byte{0xFC, 0x10, 0x20},
			want:  []byte{0x10},
		},
		{
			name:  "single byte block",
			block: []byte{0x55},
			want:  []byte{},
		},
		{
			name:  "empty block",
			block: []byte{},
			want:  []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeControlBytes(tt.block)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeControlBytes(% x) = % x, want % x", tt.block, got, tt.want)
			}
		})
	}
}

func TestStreamDecoder_CursorAdvance(t *testing.T) {
	block := []byte{0x05, 0x02, 0xFC, 0x09, 0xFC, 0x07, 0x01}
	d := newStreamDecoder(block, len(block))

	steps := []struct {
		wantCursor int
		wantState  streamState
	}{
		{2, stateInactive}, // inactive entry consumes 2
		{3, stateActive},   // marker consumes 1
		{4, stateActive},   // active entry consumes 1
		{5, stateInactive}, // marker consumes 1
		{7, stateInactive}, // inactive entry consumes 2
	}

	for i, s := range steps {
		if d.done() {
			t.Fatalf("decoder finished early at step %d", i)
		}
		d.step()
		if d.cursor != s.wantCursor {
			t.Errorf("step %d: cursor = %d, want %d", i, d.cursor, s.wantCursor)
		}
		if d.state != s.wantState {
			t.Errorf("step %d: state = %s, want %s", i, d.state, s.wantState)
		}
	}

	if !d.done() {
		t.Errorf("decoder not done, cursor = %d", d.cursor)
	}
	if d.toggles != 2 {
		t.Errorf("toggles = %d, want 2", d.toggles)
	}
}

func TestPhases(t *testing.T) {
	tests := []struct {
		in   byte
		want [4]uint8
	}{
		{0xE4, [4]uint8{0, 1, 2, 3}},
		{0x00, [4]uint8{0, 0, 0, 0}},
		{0xFF, [4]uint8{3, 3, 3, 3}},
		{0x05, [4]uint8{1, 1, 0, 0}},
		{0x1B, [4]uint8{3, 2, 1, 0}},
	}

	for _, tt := range tests {
		if got := Phases(tt.in); got != tt.want {
			t.Errorf("Phases(0x%02x) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPhases(t *testing.T) {
	got := ExpandPhases([]byte{0xE4, 0x05})
	want := []uint8{0, 1, 2, 3, 1, 1, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("ExpandPhases() = %v, want %v", got, want)
	}

	if len(ExpandPhases(nil)) != 0 {
		t.Error("ExpandPhases(nil) should be empty")
	}
}

func TestDecodeWaveform(t *testing.T) {
	data := make([]byte, 32)
	copy(data[10:], []byte{0xFC, 0xE4, 0x1B, 0xFC})

	w, err := decodeWaveform(data, 10, 4)
	if err != nil {
		t.Fatalf("decodeWaveform() error = %v", err)
	}
	if !bytes.Equal(w.Control, []byte{0xE4, 0x1B}) {
		t.Errorf("Control = % x, want e4 1b", w.Control)
	}
	if len(w.Phases) != 4*len(w.Control) {
		t.Errorf("len(Phases) = %d, want %d", len(w.Phases), 4*len(w.Control))
	}
	if got := w.Hex(); len(got) != 2 || got[0] != "e4" || got[1] != "1b" {
		t.Errorf("Hex() = %v, want [e4 1b]", got)
	}
	if groups := w.PhaseGroups(); groups[0] != [4]uint8{0, 1, 2, 3} {
		t.Errorf("PhaseGroups()[0] = %v, want [0 1 2 3]", groups[0])
	}

	empty, err := decodeWaveform(data, 10, 0)
	if err != nil {
		t.Fatalf("decodeWaveform() zero length error = %v", err)
	}
	if !empty.Empty() || empty.Phases == nil {
		t.Errorf("zero length waveform = %v, want empty non-nil phases", empty)
	}

	_, err = decodeWaveform(data, 30, 8)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("decodeWaveform() past end error = %v, want ErrTruncated", err)
	}
}

func TestWaveform_HexUnpadded(t *testing.T) {
	w := &Waveform{Control: []byte{0x05, 0xA0}}
	got := w.Hex()
	if got[0] != "5" || got[1] != "a0" {
		t.Errorf("Hex() = %v, want [5 a0]", got)
	}
}
