package config

import (
	"time"

	"github.com/muurk/epdwave/internal/wbf"
)

// Registry represents the entire user configuration file.
// It stores decoder preferences and metadata about panels seen before.
type Registry struct {
	Version     int               `yaml:"version"`
	Panels      map[string]*Panel `yaml:"panels,omitempty"` // Keyed by waveform serial number
	Preferences *Preferences      `yaml:"preferences,omitempty"`
}

// Panel represents user-defined metadata for one waveform file serial.
type Panel struct {
	Nickname     string    `yaml:"nickname,omitempty"`      // User-friendly name
	LastPath     string    `yaml:"last_path,omitempty"`     // Last file decoded with this serial
	LastDecoded  time.Time `yaml:"last_decoded,omitempty"`  // Last successful decode
	LastWarnings int       `yaml:"last_warnings,omitempty"` // Warnings collected on that decode
}

// Preferences represents application-wide user preferences.
// Command-line flags override every field.
type Preferences struct {
	MaxWaveforms int         `yaml:"max_waveforms"`       // Address table capacity
	Strict       bool        `yaml:"strict"`              // Treat warnings as fatal
	OutputFormat string      `yaml:"output_format"`       // json, compact or yaml
	LogLevel     string      `yaml:"log_level,omitempty"` // Empty keeps logging silent
	Serve        *ServePrefs `yaml:"serve,omitempty"`
}

// ServePrefs configures the publishing server.
type ServePrefs struct {
	Address   string `yaml:"address"`   // Listen address
	Port      int    `yaml:"port"`      // Listen port
	Advertise bool   `yaml:"advertise"` // Announce over mDNS
}

const (
	DefaultOutputFormat = "json"
	DefaultServeAddress = "0.0.0.0"
	DefaultServePort    = 8750
)

func defaultPreferences() *Preferences {
	return &Preferences{
		MaxWaveforms: wbf.DefaultMaxWaveforms,
		OutputFormat: DefaultOutputFormat,
		Serve: &ServePrefs{
			Address:   DefaultServeAddress,
			Port:      DefaultServePort,
			Advertise: false,
		},
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Panels:      make(map[string]*Panel),
		Preferences: defaultPreferences(),
	}
}

// applyDefaults fills in sections missing from a file written by hand or by
// an older release.
func (r *Registry) applyDefaults() {
	if r.Panels == nil {
		r.Panels = make(map[string]*Panel)
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
		return
	}
	if r.Preferences.MaxWaveforms <= 0 {
		r.Preferences.MaxWaveforms = wbf.DefaultMaxWaveforms
	}
	if r.Preferences.OutputFormat == "" {
		r.Preferences.OutputFormat = DefaultOutputFormat
	}
	if r.Preferences.Serve == nil {
		r.Preferences.Serve = defaultPreferences().Serve
	}
}

// GetPanel retrieves panel metadata by serial number.
// Returns nil if the panel doesn't exist in the registry.
func (r *Registry) GetPanel(serial string) *Panel {
	return r.Panels[serial]
}

// EnsurePanel returns the entry for serial, creating it if needed.
func (r *Registry) EnsurePanel(serial string) *Panel {
	if r.Panels == nil {
		r.Panels = make(map[string]*Panel)
	}

	if panel, exists := r.Panels[serial]; exists {
		return panel
	}

	panel := &Panel{}
	r.Panels[serial] = panel
	return panel
}

// RecordDecode stores the outcome of a successful decode for serial.
func (r *Registry) RecordDecode(serial, path string, warnings int) {
	panel := r.EnsurePanel(serial)
	panel.LastPath = path
	panel.LastDecoded = time.Now()
	panel.LastWarnings = warnings
}

// SetPanelNickname sets a user-friendly nickname for a panel.
func (r *Registry) SetPanelNickname(serial, nickname string) {
	r.EnsurePanel(serial).Nickname = nickname
}

// DisplayName returns the nickname for serial, falling back to the serial.
func (r *Registry) DisplayName(serial string) string {
	if p := r.GetPanel(serial); p != nil && p.Nickname != "" {
		return p.Nickname
	}
	return serial
}
