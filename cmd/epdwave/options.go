package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/epdwave/internal/config"
	"github.com/muurk/epdwave/internal/logging"
	"github.com/muurk/epdwave/internal/wbf"
)

// Decoder flags shared by decode, inspect, browse and serve
var (
	strict       bool
	maxWaveforms int
)

func addDecoderFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on checksum faults and file size mismatches")
	cmd.Flags().IntVar(&maxWaveforms, "max-waveforms", wbf.DefaultMaxWaveforms, "Capacity of the waveform address table")
}

// loadPreferences returns the saved preferences, or defaults when the
// config file cannot be read
func loadPreferences() (*config.Registry, *config.Preferences) {
	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Ignoring unreadable config file", zap.Error(err))
		reg = config.NewRegistry()
	}
	return reg, reg.Preferences
}

// decoderOptions merges preferences with flags; flags set on the command
// line win
func decoderOptions(cmd *cobra.Command, prefs *config.Preferences) []wbf.Option {
	s, n := prefs.Strict, prefs.MaxWaveforms
	if cmd.Flags().Changed("strict") {
		s = strict
	}
	if cmd.Flags().Changed("max-waveforms") {
		n = maxWaveforms
	}
	return []wbf.Option{wbf.WithStrict(s), wbf.WithMaxWaveforms(n)}
}

// recordDecode remembers the file against its serial. Failures only log.
func recordDecode(reg *config.Registry, path string, res *wbf.Result) {
	reg.RecordDecode(strconv.FormatUint(uint64(res.Header.Serial), 10), path, len(res.Warnings))
	if err := reg.Save(); err != nil {
		logging.Warn("Could not save config file", zap.Error(err))
	}
}

func serialName(reg *config.Registry, serial uint32) string {
	s := strconv.FormatUint(uint64(serial), 10)
	if name := reg.DisplayName(s); name != s {
		return fmt.Sprintf("%s (%s)", s, name)
	}
	return s
}
