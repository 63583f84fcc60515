package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/epdwave/internal/browse"
	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/logging"
	"github.com/muurk/epdwave/internal/ui"
	"github.com/muurk/epdwave/internal/wbf"
)

// Decode command flags
var (
	decodeOutput string
	decodeFormat string
	decodeRaw    bool
	decodeModes  string
	decodeQuiet  bool
)

// Inspect command flags
var (
	inspectFormat string
	inspectRows   bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Decode a waveform file and export its phase sequences",
	Long: `Decode a .wbf waveform file and export every mode's waveforms.

Each mode lists one entry per temperature range. Waveforms are written as
rows of 16 drive phases, each a 2-bit value from 0 to 3, with the last row
padded with zeroes. Waveforms shared between modes and ranges are decoded
once.

With --raw the export instead carries pointer records, checksum results,
block lengths and the decoded control bytes in hex.

The document is written to stdout unless --output is set; the decode
summary always goes to stderr.`,
	Example: `  epdwave decode panel.wbf
  epdwave decode panel.wbf -o panel.yaml --format yaml
  epdwave decode panel.wbf --mode GC16,DU --format compact
  epdwave decode panel.wbf --raw --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show header fields, temperature ranges and the mode table",
	Long: `Show what a waveform file declares without exporting it.

Prints the parsed header, the temperature boundaries and, for each mode,
the waveform address chosen for every temperature range together with the
pointer checksum result. Use --format to print the header as JSON or YAML
instead.`,
	Example: `  epdwave inspect panel.wbf
  epdwave inspect panel.wbf --rows
  epdwave inspect panel.wbf --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var browseCmd = &cobra.Command{
	Use:   "browse FILE",
	Short: "Browse decoded waveforms interactively",
	Long: `Open an interactive viewer for a waveform file.

Navigate from modes to temperature ranges to the phase rows of a single
waveform. Press 't' to jump to the range covering a temperature, '?' for
help and 'q' to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "Write the document to a file instead of stdout")
	decodeCmd.Flags().StringVarP(&decodeFormat, "format", "f", "", "Output format: json, compact or yaml (default from config, else json)")
	decodeCmd.Flags().BoolVar(&decodeRaw, "raw", false, "Export pointer records and control bytes instead of phase rows")
	decodeCmd.Flags().StringVarP(&decodeModes, "mode", "m", "", "Comma-separated modes to export (default all)")
	decodeCmd.Flags().BoolVarP(&decodeQuiet, "quiet", "q", false, "Suppress the decode summary")
	addDecoderFlags(decodeCmd)

	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "Print the header as json, compact or yaml instead of tables")
	inspectCmd.Flags().BoolVar(&inspectRows, "rows", false, "Also print the phase rows of every unique waveform")
	addDecoderFlags(inspectCmd)

	addDecoderFlags(browseCmd)

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(browseCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	path := args[0]
	reg, prefs := loadPreferences()
	printer := ui.NewPrinter(cmd.ErrOrStderr())

	formatName := prefs.OutputFormat
	if cmd.Flags().Changed("format") {
		formatName = decodeFormat
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var exportOpts []export.Option
	if decodeModes != "" {
		modes, err := export.ParseModeList(decodeModes)
		if err != nil {
			return err
		}
		exportOpts = append(exportOpts, export.WithModes(modes...))
	}

	res, err := wbf.DecodeFile(path, decoderOptions(cmd, prefs)...)
	if err != nil {
		if !decodeQuiet {
			printer.PrintError("Decode failed", err, wbf.Hint(err))
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	recordDecode(reg, path, res)

	var doc any
	if decodeRaw {
		doc = export.BuildRaw(res, exportOpts...)
	} else {
		doc = export.Build(res, exportOpts...)
	}

	if err := writeDocument(cmd.OutOrStdout(), decodeOutput, doc, format); err != nil {
		return err
	}

	if !decodeQuiet {
		result := ui.DecodeResult(path, res)
		if decodeOutput != "" {
			result.AddDetail("Output", decodeOutput)
		}
		printer.PrintResult(result)
	}
	return nil
}

// writeDocument encodes doc to the named file, or to stdout when name is empty
func writeDocument(stdout io.Writer, name string, doc any, format export.Format) error {
	if name == "" {
		return export.Encode(stdout, doc, format)
	}

	data, err := export.Marshal(doc, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	logging.Debug("Wrote export", zap.String("path", name), zap.Int("bytes", len(data)))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	reg, prefs := loadPreferences()
	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out)

	res, err := wbf.DecodeFile(path, decoderOptions(cmd, prefs)...)
	if err != nil {
		printer.PrintError("Decode failed", err, wbf.Hint(err))
		return fmt.Errorf("decode %s: %w", path, err)
	}
	recordDecode(reg, path, res)

	if inspectFormat != "" {
		format, err := export.ParseFormat(inspectFormat)
		if err != nil {
			return err
		}
		return export.Encode(out, res.Header.Fields(), format)
	}

	printer.PrintHeader("Waveform File", "inspect",
		ui.Param{Key: "File", Value: path},
		ui.Param{Key: "Panel", Value: serialName(reg, res.Header.Serial)},
	)

	content := "Header\n" + ui.RenderHeaderTable(res.Header) +
		"\n\nTemperature ranges: " + export.FormatRanges(res) +
		"\n\nModes\n" + ui.RenderModeTable(res)

	if inspectRows {
		for _, addr := range res.Addresses.Entries() {
			wf := res.Waveforms[addr]
			if wf == nil {
				continue
			}
			content += fmt.Sprintf("\n\nWaveform 0x%06X (%d bytes)\n", addr, len(wf.Control))
			content += ui.RenderPhaseRows(export.Rows(wf.Phases), 0)
		}
	}

	if err := ui.RenderOnce(out, content); err != nil {
		return err
	}
	printer.PrintResult(ui.DecodeResult(path, res))
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	_, prefs := loadPreferences()

	model := browse.New(args[0], decoderOptions(cmd, prefs)...)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	if m, ok := final.(browse.Model); ok && m.Err() != nil {
		ui.NewPrinter(cmd.ErrOrStderr()).PrintError("Decode failed", m.Err(), wbf.Hint(m.Err()))
		return m.Err()
	}
	return nil
}
