package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if Enabled(zapcore.ErrorLevel) {
		t.Error("logger enabled with no level set, want silent")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	if Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}
	if !Enabled(zapcore.WarnLevel) {
		t.Error("warn disabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogAddress(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	LogAddress("GC16", 2, 0x1234, 0xABCDEF, false)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["address"] != "0xabcdef" {
		t.Errorf("address = %v, want 0xabcdef", fields["address"])
	}
	if fields["checksum_ok"] != false {
		t.Errorf("checksum_ok = %v, want false", fields["checksum_ok"])
	}
}

func TestLogRawBytes_SkippedAboveDebug(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	LogRawBytes("stream", []byte{0xFC, 0x01})
	if logs.Len() != 0 {
		t.Errorf("got %d entries at info level, want 0", logs.Len())
	}
}

func TestDumps(t *testing.T) {
	data := []byte{'A', 0x00, 'z'}
	if got := hexDump(data); got != "41007a" {
		t.Errorf("hexDump() = %q, want 41007a", got)
	}
	if got := asciiDump(data); got != "A.z" {
		t.Errorf("asciiDump() = %q, want A.z", got)
	}
	long := make([]byte, 300)
	if got := hexDump(long); len(got) != 512+3 {
		t.Errorf("hexDump(300 bytes) length = %d, want 515", len(got))
	}
}
