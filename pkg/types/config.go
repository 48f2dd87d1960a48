// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for outbound requests.
type HTTPConfig struct {
	// Timeout bounds a single request. Zero means no client-side timeout;
	// the request resolves or fails per the transport's own semantics.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "research-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ServiceConfig locates the research service.
type ServiceConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the absolute URL of the research endpoint. It is the only
	// place the service address comes from; there is no built-in default.
	URL string `json:"url" yaml:"url"`
}

// ExportFormat selects the structured export encoding.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
)

// PrinterBackend selects how printable exports are produced.
type PrinterBackend string

const (
	PrinterChrome PrinterBackend = "chrome"
	PrinterHTML   PrinterBackend = "html"
)

// ExportConfig holds settings for structured and printable exports.
type ExportConfig struct {
	// Dir receives downloaded files and the export ledger.
	Dir string `json:"dir" yaml:"dir"`

	// Format selects the structured export encoding (default json).
	Format ExportFormat `json:"format" yaml:"format"`

	// Printer selects the printable export backend (default chrome).
	Printer PrinterBackend `json:"printer" yaml:"printer"`

	// ChromePath overrides the Chrome/Chromium executable used for printing.
	ChromePath string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
}

// UIConfig holds presentation settings. None of them affect session or
// export behaviour.
type UIConfig struct {
	// Theme names the presentation theme: light or dark.
	Theme string `json:"theme" yaml:"theme"`

	// Width is the wrap width for rendered reports.
	Width int `json:"width" yaml:"width"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// File redirects logs away from stderr when set.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Config groups all client configuration.
type Config struct {
	Service ServiceConfig `json:"service" yaml:"service"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	UI      UIConfig      `json:"ui" yaml:"ui"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
