package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/muurk/epdwave/internal/config"
	"github.com/muurk/epdwave/internal/discovery"
	"github.com/muurk/epdwave/internal/server"
	"github.com/muurk/epdwave/internal/ui"
	"github.com/muurk/epdwave/internal/wbf"
)

// Serve command flags
var (
	serveHost      string
	servePort      int
	serveCert      string
	serveKey       string
	serveAdvertise bool
	serveInstance  string
	serveWatch     time.Duration
)

// Scan command flags
var (
	scanTimeout time.Duration
	scanSerial  string
)

var serveCmd = &cobra.Command{
	Use:   "serve FILE",
	Short: "Publish a decoded waveform file over HTTP and WebSocket",
	Long: `Decode a waveform file and publish it on the network.

Endpoints:
  GET /waveforms.json   Export document (?mode=GC16,DU to filter)
  GET /waveforms.yaml   Export document as YAML
  GET /raw.json         Pointer records and control bytes
  GET /header.json      Parsed header fields
  GET /healthz          Liveness check
  GET /ws               WebSocket: pushes the document on connect and
                        after every reload; answers waveform and header
                        requests

With --watch the file is re-decoded when its modification time changes.
With --advertise the server announces itself over mDNS as ` + discovery.ServiceType + `.`,
	Example: `  epdwave serve panel.wbf
  epdwave serve panel.wbf --port 9000 --advertise
  epdwave serve panel.wbf --cert server.crt --key server.key --watch 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find waveform publishers on the local network",
	Long: `Browse mDNS for '` + discovery.ServiceType + `' services started with
'epdwave serve --advertise' and list them with their panel serial numbers.

With --serial the scan stops at the first publisher serving that panel.`,
	Example: `  epdwave scan
  epdwave scan --timeout 10s
  epdwave scan --serial 123456`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", config.DefaultServeAddress, "Listen address")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultServePort, "Listen port")
	serveCmd.Flags().StringVar(&serveCert, "cert", "", "TLS certificate (PEM); requires --key")
	serveCmd.Flags().StringVar(&serveKey, "key", "", "TLS private key (PEM); requires --cert")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Announce the server over mDNS")
	serveCmd.Flags().StringVar(&serveInstance, "instance", "", "mDNS instance name (default derived from the serial)")
	serveCmd.Flags().DurationVar(&serveWatch, "watch", 0, "Re-decode the file when it changes, polling at this interval")
	addDecoderFlags(serveCmd)

	scanCmd.Flags().DurationVarP(&scanTimeout, "timeout", "t", discovery.DefaultScanTimeout, "How long to browse")
	scanCmd.Flags().StringVar(&scanSerial, "serial", "", "Stop at the publisher serving this panel serial")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
}

// serveConfig merges saved serve preferences with flags
func serveConfig(cmd *cobra.Command, prefs *config.Preferences) *server.Config {
	cfg := &server.Config{
		Host:      serveHost,
		Port:      servePort,
		CertPath:  serveCert,
		KeyPath:   serveKey,
		Advertise: serveAdvertise,
		Instance:  serveInstance,
		Watch:     serveWatch,
	}
	if sp := prefs.Serve; sp != nil {
		if !cmd.Flags().Changed("host") && sp.Address != "" {
			cfg.Host = sp.Address
		}
		if !cmd.Flags().Changed("port") && sp.Port != 0 {
			cfg.Port = sp.Port
		}
		if !cmd.Flags().Changed("advertise") {
			cfg.Advertise = sp.Advertise
		}
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	path := args[0]
	reg, prefs := loadPreferences()
	printer := ui.NewPrinter(cmd.OutOrStdout())

	cfg := serveConfig(cmd, prefs)
	srv, err := server.New(cfg, path, decoderOptions(cmd, prefs)...)
	if err != nil {
		printer.PrintError("Cannot serve waveform file", err, wbf.Hint(err))
		return err
	}
	res := srv.Result()
	recordDecode(reg, path, res)

	scheme := "http"
	if cfg.CertPath != "" {
		scheme = "https"
	}
	printer.PrintHeader("Waveform Server", "serve",
		ui.Param{Key: "File", Value: path},
		ui.Param{Key: "Panel", Value: serialName(reg, res.Header.Serial)},
		ui.Param{Key: "Listen", Value: fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)},
		ui.Param{Key: "mDNS", Value: fmt.Sprintf("%t", cfg.Advertise)},
	)
	if res.HasWarnings() {
		printer.PrintResult(ui.DecodeResult(path, res))
	}
	printer.Println("Press Ctrl+C to stop.")

	return srv.Start(cmd.Context())
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, _ := loadPreferences()
	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out)

	ctx, cancel := context.WithTimeout(contextOrBackground(cmd), scanTimeout)
	defer cancel()

	printer.PrintHeader("Publisher Discovery", "scan",
		ui.Param{Key: "Service", Value: discovery.ServiceType},
		ui.Param{Key: "Timeout", Value: scanTimeout.String()},
	)

	scanner := newScanner(scanTimeout)

	if scanSerial != "" {
		p, err := scanner.WaitForSerial(ctx, scanSerial)
		if err != nil {
			printer.PrintError("Publisher not found", err, []string{
				"Check the publisher was started with --advertise",
				"Make sure both machines are on the same network segment",
				"Multicast DNS traffic (UDP 5353) must not be blocked",
			})
			return err
		}
		printer.PrintSuccess("Publisher found",
			ui.Param{Key: "Panel", Value: reg.DisplayName(p.Serial)},
			ui.Param{Key: "Document", Value: p.DocumentURL()},
			ui.Param{Key: "WebSocket", Value: p.WebSocketURL()},
		)
		return nil
	}

	publishers, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(publishers) == 0 {
		printer.PrintResult(ui.NewWarningResult("No publishers found",
			[]string{"Start one with 'epdwave serve FILE --advertise'"}))
		return nil
	}

	discovery.SortPublishers(publishers)
	return ui.RenderOnce(out, renderPublishers(reg, publishers))
}

// newScanner returns a scanner that browses for the full timeout
func newScanner(timeout time.Duration) *discovery.Scanner {
	scanner := discovery.NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner
}

func renderPublishers(reg *config.Registry, publishers []*discovery.Publisher) string {
	var b strings.Builder
	b.WriteString(ui.SuccessTitleStyle.Render(fmt.Sprintf("%s Found %d publisher(s)", ui.SuccessMarker, len(publishers))))
	b.WriteString("\n\n")

	for _, p := range publishers {
		name := reg.DisplayName(p.Serial)
		lines := []string{
			ui.ResultKeyStyle.Render("Panel:") + " " + ui.ResultValueStyle.Render(name),
			ui.ResultKeyStyle.Render("Host:") + " " + ui.ResultValueStyle.Render(p.Hostname),
			ui.ResultKeyStyle.Render("Document:") + " " + ui.ResultValueStyle.Render(p.DocumentURL()),
		}
		if modes := p.GetMetadata(discovery.TXTModes); modes != "" {
			lines = append(lines, ui.ResultKeyStyle.Render("Modes:")+" "+ui.ResultValueStyle.Render(modes))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, lines...))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
