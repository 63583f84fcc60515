package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/epdwave/internal/config"
	"github.com/muurk/epdwave/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the epdwave configuration file",
	Long: `Manage decoder preferences and remembered panels.

The configuration file lives under the user config directory
(XDG_CONFIG_HOME on Linux). It stores default decoder options, the
default output format, serve settings, and a nickname for each panel
serial seen in a decoded file. Command-line flags always override it.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default preferences",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configNicknameCmd = &cobra.Command{
	Use:     "set-nickname SERIAL NAME",
	Short:   "Name a panel by its waveform serial number",
	Example: `  epdwave config set-nickname 123456 "Reader 6in"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runConfigNickname,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configNicknameCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())

	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	force := configForce
	if _, statErr := os.Stat(path); statErr == nil && !force {
		force = printer.Confirm(cmd.InOrStdin(), "Config file exists",
			[]string{path, "Panel nicknames and preferences will be reset"},
			"Overwrite it?")
		if !force {
			printer.Println("Aborted.")
			return nil
		}
	}

	path, err = config.CreateDefaultConfig(force)
	if err != nil {
		printer.PrintError("Could not write config file", err, []string{
			"Check that the config directory is writable",
		})
		return err
	}
	if _, err := config.ReloadRegistry(); err != nil {
		return err
	}

	printer.PrintSuccess("Config file written", ui.Param{Key: "Path", Value: path})
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", path)
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(reg); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if len(reg.Panels) == 0 {
		return nil
	}
	serials := make([]string, 0, len(reg.Panels))
	for s := range reg.Panels {
		serials = append(serials, s)
	}
	sort.Strings(serials)

	printer := ui.NewPrinter(out)
	printer.Newline()
	for _, s := range serials {
		p := reg.Panels[s]
		printer.Println(fmt.Sprintf("%s  %-16s  %s", s, reg.DisplayName(s), p.LastPath))
	}
	return nil
}

func runConfigNickname(cmd *cobra.Command, args []string) error {
	serial, name := args[0], args[1]
	if _, err := strconv.ParseUint(serial, 10, 32); err != nil {
		return fmt.Errorf("invalid serial %q: must be a decimal number", serial)
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}
	reg.SetPanelNickname(serial, name)
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Nickname saved",
		ui.Param{Key: "Serial", Value: serial},
		ui.Param{Key: "Nickname", Value: name},
	)
	return nil
}
