// Epdwave decodes electrophoretic display waveform files (.wbf).
//
// It reads the binary waveform table shipped with e-paper panels, resolves
// every update mode and temperature range to its waveform, and exports the
// decoded phase sequences as JSON or YAML. It can also inspect headers,
// browse waveforms interactively, and publish a decoded file on the local
// network.
//
// Usage:
//
//	epdwave [command] [flags]
//
// See 'epdwave --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/epdwave/internal/config"
	"github.com/muurk/epdwave/internal/logging"
	"github.com/muurk/epdwave/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "epdwave",
	Short: "E-paper waveform file decoder",
	Long: `Decode electrophoretic display waveform files (.wbf).

A waveform file maps every update mode (INIT, DU, GC16, ...) and panel
temperature range to a sequence of drive phases. epdwave parses the header,
follows the mode and temperature pointer tables, decodes each waveform's
run-length stream, and exports the result.

Logging is silent unless --log-level or EPDWAVE_LOG_LEVEL is set.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	Example: `  # Export every waveform as JSON
  epdwave decode panel.wbf -o panel.json

  # Show header fields and the mode table
  epdwave inspect panel.wbf

  # Browse waveforms interactively
  epdwave browse panel.wbf

  # Publish on the local network and find publishers
  epdwave serve panel.wbf
  epdwave scan`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if level == "" {
			if reg, err := config.LoadRegistry(); err == nil {
				level = reg.Preferences.LogLevel
			}
		}
		return logging.Initialize(level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "epdwave %s\n%s\n", version.Full(), version.Platform())
	},
}
