// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/client"
	"github.com/pdiddy/research-agent/internal/export"
	"github.com/pdiddy/research-agent/internal/ledger"
	"github.com/pdiddy/research-agent/pkg/types"
)

func setDefaults() {
	viper.SetDefault("service.timeout", "0s")
	viper.SetDefault("service.user_agent", "research-agent/"+version)
	viper.SetDefault("export.dir", "downloads")
	viper.SetDefault("export.format", string(types.ExportJSON))
	viper.SetDefault("export.printer", string(types.PrinterChrome))
	viper.SetDefault("ui.theme", "light")
	viper.SetDefault("ui.width", 80)
	viper.SetDefault("log.level", "info")
}

// loadConfig reads the merged flag, env, and file settings.
func loadConfig() (types.Config, error) {
	cfg := types.Config{
		Service: types.ServiceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("service.timeout"),
				UserAgent: viper.GetString("service.user_agent"),
			},
			URL: viper.GetString("service.url"),
		},
		Export: types.ExportConfig{
			Dir:        viper.GetString("export.dir"),
			Format:     types.ExportFormat(viper.GetString("export.format")),
			Printer:    types.PrinterBackend(viper.GetString("export.printer")),
			ChromePath: viper.GetString("export.chrome_path"),
		},
		UI: types.UIConfig{
			Theme: viper.GetString("ui.theme"),
			Width: viper.GetInt("ui.width"),
		},
		Log: types.LogConfig{
			Level: viper.GetString("log.level"),
			File:  viper.GetString("log.file"),
		},
	}

	switch cfg.Export.Format {
	case types.ExportJSON, types.ExportYAML:
	default:
		return cfg, fmt.Errorf("unsupported export.format %q: use json or yaml", cfg.Export.Format)
	}
	switch cfg.Export.Printer {
	case types.PrinterChrome, types.PrinterHTML:
	default:
		return cfg, fmt.Errorf("unsupported export.printer %q: use chrome or html", cfg.Export.Printer)
	}
	if cfg.Service.Timeout < 0 {
		return cfg, fmt.Errorf("service.timeout must not be negative")
	}
	return cfg, nil
}

// newLogger builds a production zap logger writing to stderr or cfg.File.
func newLogger(cfg types.LogConfig, debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log.level: %w", err)
		}
		config.Level = level
	}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if cfg.File != "" {
		config.OutputPaths = []string{cfg.File}
		config.ErrorOutputPaths = []string{cfg.File}
	}
	return config.Build()
}

// newClient builds the research service client from cfg.
func newClient(cfg types.Config) (*client.Client, error) {
	c, err := client.New(cfg.Service, logger)
	if err != nil {
		return nil, fmt.Errorf("%w (set service.url or RESEARCH_AGENT_SERVICE_URL)", err)
	}
	return c, nil
}

// newExporter opens the export ledger and returns a manager writing into
// the export directory. The returned close function releases the ledger.
func newExporter(cfg types.Config) (*export.Manager, func() error, error) {
	l, err := ledger.Open(filepath.Join(cfg.Export.Dir, ledger.DBFile))
	if err != nil {
		return nil, nil, err
	}
	sink := &export.FileSink{
		Dir:      cfg.Export.Dir,
		Printer:  export.NewPrinter(cfg.Export),
		Recorder: l,
		Logger:   logger,
	}
	m := export.NewManager(sink, export.WithFormat(cfg.Export.Format), export.WithLogger(logger))
	return m, l.Close, nil
}
