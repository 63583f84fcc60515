package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/epdwave/internal/config"
	"github.com/muurk/epdwave/internal/discovery"
	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/wbf"
	"github.com/muurk/epdwave/internal/wbf/wbftest"
)

func writeSample(t *testing.T) string {
	t.Helper()
	buf, _ := wbftest.Sample().MustBuild()
	path := filepath.Join(t.TempDir(), "sample.wbf")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDecodeCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EPDWAVE_LOG_LEVEL", "")
	path := writeSample(t)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"decode", path, "--quiet", "--format", "json", "--mode", "INIT"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v (stderr: %s)", err, stderr.String())
	}

	var doc export.Document
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if len(doc.Modes) != 1 || doc.Modes[0].Mode != "INIT" {
		t.Fatalf("modes = %+v, want only INIT", doc.Modes)
	}
	if got := len(doc.TemperatureRanges.RangeBounds); got != 2 {
		t.Errorf("range bounds = %d, want 2", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("--quiet still wrote to stderr: %q", stderr.String())
	}
}

func TestWriteDocument(t *testing.T) {
	doc := map[string]int{"a": 1}

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeDocument(&buf, "", doc, export.FormatCompact); err != nil {
			t.Fatalf("writeDocument() error = %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != `{"a":1}` {
			t.Errorf("stdout = %q, want {\"a\":1}", got)
		}
	})

	t.Run("file in new directory", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out", "doc.yaml")
		var buf bytes.Buffer
		if err := writeDocument(&buf, name, doc, export.FormatYAML); err != nil {
			t.Fatalf("writeDocument() error = %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("stdout written when output file set: %q", buf.String())
		}
		data, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if strings.TrimSpace(string(data)) != "a: 1" {
			t.Errorf("file = %q, want \"a: 1\"", data)
		}
	})
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addDecoderFlags(cmd)
	cmd.Flags().StringVar(&serveHost, "host", config.DefaultServeAddress, "")
	cmd.Flags().IntVar(&servePort, "port", config.DefaultServePort, "")
	cmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "")
	return cmd
}

func TestServeConfig_FlagsOverridePreferences(t *testing.T) {
	prefs := &config.Preferences{
		Serve: &config.ServePrefs{Address: "127.0.0.1", Port: 9100, Advertise: true},
	}

	cmd := newFlagCmd()
	if err := cmd.ParseFlags([]string{"--port", "9200"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := serveConfig(cmd, prefs)
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want preference 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 9200 {
		t.Errorf("Port = %d, want flag 9200", cfg.Port)
	}
	if !cfg.Advertise {
		t.Error("Advertise = false, want preference true")
	}
}

func TestServeConfig_DefaultsDoNotAdvertise(t *testing.T) {
	cmd := newFlagCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := serveConfig(cmd, config.NewRegistry().Preferences)
	if cfg.Advertise {
		t.Error("Advertise = true with default preferences, want false")
	}
	if cfg.Port != config.DefaultServePort {
		t.Errorf("Port = %d, want %d", cfg.Port, config.DefaultServePort)
	}
}

func TestNewScanner_UsesTimeoutFlag(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"longer than default", 10 * time.Second, 10 * time.Second},
		{"shorter than default", 2 * time.Second, 2 * time.Second},
		{"zero keeps default", 0, discovery.DefaultScanTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newScanner(tt.timeout).Timeout; got != tt.want {
				t.Errorf("Timeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecoderOptions(t *testing.T) {
	prefs := &config.Preferences{Strict: true, MaxWaveforms: 8}
	buf, _ := wbftest.Sample().MustBuild()

	cmd := newFlagCmd()
	if err := cmd.ParseFlags([]string{"--strict=false"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	opts := decoderOptions(cmd, prefs)
	if len(opts) != 2 {
		t.Fatalf("options = %d, want 2", len(opts))
	}

	// The sample needs three address slots, so a capacity of one must fail
	cmd = newFlagCmd()
	if err := cmd.ParseFlags([]string{"--max-waveforms", "1"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if _, err := wbf.Decode(buf, decoderOptions(cmd, prefs)...); err == nil {
		t.Error("decode with --max-waveforms 1 succeeded, want capacity error")
	}
}

func TestRenderPublishers(t *testing.T) {
	reg := config.NewRegistry()
	reg.SetPanelNickname("123456", "Kitchen")

	out := renderPublishers(reg, []*discovery.Publisher{{
		Instance:     "epdwave-123456",
		Hostname:     "pi.local.",
		IP:           "192.168.1.20",
		Port:         8750,
		Serial:       "123456",
		Metadata:     map[string]string{discovery.TXTModes: "2"},
		DiscoveredAt: time.Now(),
	}})

	for _, want := range []string{"Found 1 publisher", "Kitchen", "pi.local.", "http://192.168.1.20:8750/waveforms.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeHelp_PhaseValues(t *testing.T) {
	if !strings.Contains(decodeCmd.Long, "2-bit value from 0 to 3") {
		t.Errorf("decode help does not describe phase values:\n%s", decodeCmd.Long)
	}
	for _, gloss := range []string{"to black", "to white", "= end", "reserved"} {
		if strings.Contains(decodeCmd.Long, gloss) {
			t.Errorf("decode help assigns a meaning to phase values: %q", gloss)
		}
	}
}
