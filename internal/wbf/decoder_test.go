package wbf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/muurk/epdwave/internal/wbf/wbftest"
)

func TestDecode_Sample(t *testing.T) {
	buf, layout := wbftest.Sample().MustBuild()

	res, err := Decode(buf, WithFileSize(int64(len(buf))))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.HasWarnings() {
		t.Fatalf("Decode() warnings = %v, want none", res.Warnings)
	}

	if len(res.TemperatureRanges) != 2 {
		t.Fatalf("TemperatureRanges = %v, want 2 ranges", res.TemperatureRanges)
	}
	if res.TemperatureRanges[1] != (TemperatureRange{Lower: 25, Upper: 50}) {
		t.Errorf("TemperatureRanges[1] = %v, want [25, 50)", res.TemperatureRanges[1])
	}

	if len(res.Modes) != 2 {
		t.Fatalf("len(Modes) = %d, want 2", len(res.Modes))
	}
	if res.Modes[0].Mode.Name != "INIT" || res.Modes[1].Mode.Name != "DU" {
		t.Errorf("mode names = %s, %s, want INIT, DU", res.Modes[0].Mode.Name, res.Modes[1].Mode.Name)
	}
	if res.Modes[1].Mode.Address != uint32(layout.RangeTables[1]) {
		t.Errorf("DU base address = 0x%x, want 0x%x", res.Modes[1].Mode.Address, layout.RangeTables[1])
	}

	if res.UniqueWaveforms() != 3 {
		t.Errorf("UniqueWaveforms() = %d, want 3", res.UniqueWaveforms())
	}

	tests := []struct {
		mode    ModeID
		rng     int
		control []byte
	}{
		{ModeInit, 0, []byte{0x05, 0x09}},
		{ModeInit, 1, []byte{0x11, 0x22, 0x33}},
		{ModeDU, 0, []byte{0x05, 0x09}},
		{ModeDU, 1, []byte{}},
	}

	for _, tt := range tests {
		w, err := res.Waveform(tt.mode, tt.rng)
		if err != nil {
			t.Fatalf("Waveform(%s, %d) error = %v", tt.mode, tt.rng, err)
		}
		if !bytes.Equal(w.Control, tt.control) {
			t.Errorf("Waveform(%s, %d).Control = % x, want % x", tt.mode, tt.rng, w.Control, tt.control)
		}
		if len(w.Phases) != 4*len(w.Control) {
			t.Errorf("Waveform(%s, %d) has %d phases for %d control bytes", tt.mode, tt.rng, len(w.Phases), len(w.Control))
		}
	}

	// Shared addresses resolve to the same decoded waveform
	a, _ := res.Waveform(ModeInit, 0)
	b, _ := res.Waveform(ModeDU, 0)
	if a != b {
		t.Error("expected INIT/0 and DU/0 to share a waveform")
	}
}

func TestDecode_ChecksumFaultsAreWarnings(t *testing.T) {
	b := wbftest.Sample()
	b.BadModeChecksums = []int{1}
	b.BadRangeChecksums = [][2]int{{0, 1}}
	buf, layout := b.MustBuild()

	res, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("len(Warnings) = %d, want 2: %v", len(res.Warnings), res.Warnings)
	}
	for _, w := range res.Warnings {
		if w.Kind != WarnChecksumFault {
			t.Errorf("warning kind = %s, want %s", w.Kind, WarnChecksumFault)
		}
	}
	if res.Warnings[0].Offset != layout.ModeTable+4 {
		t.Errorf("first warning offset = 0x%x, want 0x%x", res.Warnings[0].Offset, layout.ModeTable+4)
	}

	// Decoding continues with the address as read
	w, err := res.Waveform(ModeInit, 1)
	if err != nil {
		t.Fatalf("Waveform() error = %v", err)
	}
	if !bytes.Equal(w.Control, []byte{0x11, 0x22, 0x33}) {
		t.Errorf("Control = % x, want 11 22 33", w.Control)
	}
}

func TestDecode_Strict(t *testing.T) {
	b := wbftest.Sample()
	b.BadRangeChecksums = [][2]int{{1, 0}}
	buf, _ := b.MustBuild()

	_, err := Decode(buf, WithStrict(true))
	if !errors.Is(err, ErrStrict) {
		t.Fatalf("Decode() strict error = %v, want ErrStrict", err)
	}

	clean, _ := wbftest.Sample().MustBuild()
	if _, err := Decode(clean, WithStrict(true)); err != nil {
		t.Errorf("Decode() strict on clean file error = %v", err)
	}
}

func TestDecode_FileSizeMismatch(t *testing.T) {
	buf, _ := wbftest.Sample().MustBuild()

	res, err := Decode(buf, WithFileSize(int64(len(buf)+1)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnFileSizeMismatch {
		t.Fatalf("Warnings = %v, want one file size mismatch", res.Warnings)
	}
	if res.Warnings[0].Expected != int64(len(buf)) || res.Warnings[0].Actual != int64(len(buf)+1) {
		t.Errorf("mismatch = %d/%d, want %d/%d", res.Warnings[0].Expected, res.Warnings[0].Actual, len(buf), len(buf)+1)
	}

	// Without a size there is nothing to compare
	res, err = Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.HasWarnings() {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}

func TestDecode_UnknownMode(t *testing.T) {
	b := wbftest.Sample()
	b.Modes = make([][]int, KnownModes+1)
	for i := range b.Modes {
		b.Modes[i] = []int{0, 1}
	}
	buf, _ := b.MustBuild()

	_, err := Decode(buf)
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("Decode() error = %v, want ErrUnknownMode", err)
	}
	kind, ok := KindOf(err)
	if !ok || kind != ErrKindUnknownMode {
		t.Errorf("KindOf() = %v, %v, want %v", kind, ok, ErrKindUnknownMode)
	}
}

func TestDecode_AllKnownModes(t *testing.T) {
	b := wbftest.Sample()
	b.Modes = make([][]int, KnownModes)
	for i := range b.Modes {
		b.Modes[i] = []int{0, 1}
	}
	buf, _ := b.MustBuild()

	res, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := res.Modes[KnownModes-1].Mode.Name; got != "GL16_INV" {
		t.Errorf("last mode = %s, want GL16_INV", got)
	}
}

func TestDecode_AddressTableFull(t *testing.T) {
	buf, _ := wbftest.Sample().MustBuild()

	_, err := Decode(buf, WithMaxWaveforms(2))
	if !errors.Is(err, ErrAddressTableFull) {
		t.Fatalf("Decode() error = %v, want ErrAddressTableFull", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	buf, layout := wbftest.Sample().MustBuild()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", buf[:40], ErrMalformedHeader},
		{"mode table cut", buf[:layout.ModeTable+2], ErrTruncated},
		{"range table cut", buf[:layout.RangeTables[1]+1], ErrTruncated},
		{"waveform cut", buf[:layout.WaveformAddrs[1]+3], ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_NullPointerDecodesEmpty(t *testing.T) {
	b := wbftest.Sample()
	b.Modes = [][]int{{0, -1}, {1, 2}}
	buf, _ := b.MustBuild()

	res, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	w, _ := res.Waveform(ModeInit, 1)
	if w == nil || !w.Empty() {
		t.Errorf("null pointer waveform = %v, want empty", w)
	}
	if res.UniqueWaveforms() != 3 {
		t.Errorf("UniqueWaveforms() = %d, want 3", res.UniqueWaveforms())
	}
}

func TestDecode_SingleBlockIsLastAndEmpty(t *testing.T) {
	b := &wbftest.Builder{
		Temperatures: []uint8{0, 50},
		Waveforms:    [][]byte{{0x05, 0x02, 0xFC, 0x09, 0xFC, 0xFC, 0xFC}},
		Modes:        [][]int{{0}},
	}
	buf, layout := b.MustBuild()

	res, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.HasWarnings() {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}

	w, err := res.Waveform(ModeInit, 0)
	if err != nil {
		t.Fatalf("Waveform() error = %v", err)
	}
	if w.Address != layout.WaveformAddrs[0] {
		t.Errorf("Address = 0x%x, want 0x%x", w.Address, layout.WaveformAddrs[0])
	}
	// With no following address the block length cannot be inferred
	if w.Length != 0 || len(w.Control) != 0 || len(w.Phases) != 0 {
		t.Errorf("waveform = %v (phases %v), want empty", w, w.Phases)
	}
	if w.Phases == nil {
		t.Error("Phases = nil, want empty slice")
	}
}

func TestDecodeFile(t *testing.T) {
	buf, _ := wbftest.Sample().MustBuild()
	path := filepath.Join(t.TempDir(), "panel.wbf")
	if err := os.WriteFile(path, buf, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if res.HasWarnings() {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}

	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.wbf")); err == nil {
		t.Error("DecodeFile() on missing file should fail")
	}
}

func TestResult_WaveformLookupErrors(t *testing.T) {
	buf, _ := wbftest.Sample().MustBuild()
	res, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if _, err := res.Waveform(ModeGC16, 0); err == nil {
		t.Error("expected error for mode not in file")
	}
	if _, err := res.Waveform(ModeInit, 5); err == nil {
		t.Error("expected error for out of range index")
	}
}

func TestRangeFor(t *testing.T) {
	ranges := []TemperatureRange{{0, 10}, {10, 20}, {20, 30}}

	tests := []struct {
		celsius int
		want    int
		ok      bool
	}{
		{0, 0, true},
		{9, 0, true},
		{10, 1, true},
		{29, 2, true},
		{30, -1, false},
		{-5, -1, false},
	}

	for _, tt := range tests {
		got, ok := RangeFor(ranges, tt.celsius)
		if got != tt.want || ok != tt.ok {
			t.Errorf("RangeFor(%d) = %d, %v, want %d, %v", tt.celsius, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseModeName(t *testing.T) {
	tests := []struct {
		in      string
		want    ModeID
		wantErr bool
	}{
		{"GC16", ModeGC16, false},
		{"gc16_fast", ModeGC16Fast, false},
		{" GL16_INV ", ModeGL16Inv, false},
		{"A3", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseModeName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseModeName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseModeName(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ModeFromIndex(KnownModes); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ModeFromIndex(%d) error = %v, want ErrUnknownMode", KnownModes, err)
	}
	if ModeID(200).Valid() {
		t.Error("ModeID(200) should not be valid")
	}
}
