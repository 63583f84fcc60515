package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/wbf"
	"github.com/muurk/epdwave/internal/wbf/wbftest"
)

func sampleResult(t *testing.T, b *wbftest.Builder) *wbf.Result {
	t.Helper()
	buf, _ := b.MustBuild()
	res, err := wbf.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return res
}

func TestHeaderRenderKeepsParamOrder(t *testing.T) {
	out := NewHeader("Waveform Decode", "epdwave decode a.wbf",
		Param{Key: "File", Value: "a.wbf"},
		Param{Key: "Strict", Value: "true"},
	).SetWidth(80).Render()

	if !strings.Contains(out, "WAVEFORM DECODE") {
		t.Errorf("title not upper-cased:\n%s", out)
	}
	if strings.Index(out, "File:") > strings.Index(out, "Strict:") {
		t.Errorf("params out of order:\n%s", out)
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("done", Param{Key: "Modes", Value: "2"}),
			want:   []string{"SUCCESS", "done", "Modes:", "2"},
		},
		{
			name:   "warning",
			result: NewWarningResult("careful", []string{"checksum off"}),
			want:   []string{"WARNING", "checksum off"},
		},
		{
			name:   "failure",
			result: NewFailureResult("broken", errors.New("boom"), []string{"try again"}),
			want:   []string{"FAILED", "Error: boom", "Troubleshooting:", "try again"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Render() missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestDecodeResult(t *testing.T) {
	res := sampleResult(t, wbftest.Sample())
	r := DecodeResult("sample.wbf", res)
	if r.Type != ResultSuccess {
		t.Errorf("Type = %v, want success", r.Type)
	}

	b := wbftest.Sample()
	b.BadModeChecksums = []int{1}
	r = DecodeResult("bad.wbf", sampleResult(t, b))
	if r.Type != ResultWarning || len(r.Notes) != 1 {
		t.Errorf("Type = %v, Notes = %v, want one warning", r.Type, r.Notes)
	}
}

func TestRenderTables(t *testing.T) {
	res := sampleResult(t, wbftest.Sample())

	header := RenderHeaderTable(res.Header)
	if !strings.Contains(header, "123456") {
		t.Errorf("header table missing serial:\n%s", header)
	}

	modes := RenderModeTable(res)
	for _, want := range []string{"INIT", "DU", "[0, 25)"} {
		if !strings.Contains(modes, want) {
			t.Errorf("mode table missing %q:\n%s", want, modes)
		}
	}
}

func TestRenderPhaseRows(t *testing.T) {
	if out := RenderPhaseRows(nil, 0); !strings.Contains(out, "empty") {
		t.Errorf("RenderPhaseRows(nil, 0) = %q", out)
	}
	out := RenderPhaseRows([]export.Row{{1, 2, 3, 0}}, 7)
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderPhaseRows() = %q, want one line", out)
	}
	if !strings.Contains(out, "7") {
		t.Errorf("RenderPhaseRows() = %q, want row number 7", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrinter(&out).SetWidth(80)
		got := p.Confirm(strings.NewReader(tt.input), "Overwrite", []string{"file exists"}, "Continue?")
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Continue? [y/N]") {
			t.Errorf("prompt not written: %q", out.String())
		}
	}
}
