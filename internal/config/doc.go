// Package config manages the epdwave user configuration file.
//
// The file is YAML and holds decoder preferences (address table capacity,
// strict mode, output format, log level, publishing server settings) and a
// small record of every waveform serial decoded before.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/epdwave/config.yaml or $HOME/.config/epdwave/config.yaml
//   - macOS: $HOME/.config/epdwave/config.yaml
//   - Windows: %LOCALAPPDATA%\epdwave\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := []wbf.Option{wbf.WithMaxWaveforms(registry.Preferences.MaxWaveforms)}
//	res, err := wbf.DecodeFile(path, opts...)
//	...
//	registry.RecordDecode(fmt.Sprint(res.Header.Serial), path, len(res.Warnings))
//	_ = registry.Save()
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes are serialized by a mutex and go through a temporary file.
package config
