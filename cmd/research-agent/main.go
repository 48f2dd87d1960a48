// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-agent CLI: a terminal
// client for a research service that submits a topic, shows the returned
// insights and report, and exports the result.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool

	// logger is built in PersistentPreRunE from the log.* settings.
	logger = zap.NewNop()
)

// rootCmd is the base command for the research-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "research-agent",
	Short: "Terminal client for an AI research service",
	Long: `research-agent sends a research topic to a research service and presents
the result: key insights, a credibility score, a markdown report, and its
sources. Results can be saved as JSON or YAML and printed to PDF.

Run "research-agent tui" for the interactive client or
"research-agent research <topic>" for a one-shot session. The service address
comes from service.url in the config file or RESEARCH_AGENT_SERVICE_URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := newLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./research-agent.yaml or ~/.config/research-agent/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.String("url", "", "research service endpoint (service.url)")
	pf.String("export-dir", "", "directory for exported files (export.dir)")
	pf.String("theme", "", "presentation theme: light or dark (ui.theme)")

	_ = viper.BindPFlag("service.url", pf.Lookup("url"))
	_ = viper.BindPFlag("export.dir", pf.Lookup("export-dir"))
	_ = viper.BindPFlag("ui.theme", pf.Lookup("theme"))
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-agent"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
