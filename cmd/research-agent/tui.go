// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive research client",
	Long: `Tui opens a full-screen client: type a topic and press enter to research
it. While a request is in flight further submissions are ignored. After a
successful result, ctrl+s saves the structured export and ctrl+p prints the
report. esc or ctrl+c quits and discards any pending response.

Logs are discarded unless log.file is set, since the client owns the
terminal.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Log.File == "" {
		logger = zap.NewNop()
	}

	c, err := newClient(cfg)
	if err != nil {
		return err
	}
	mgr, closeLedger, err := newExporter(cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	model := ui.NewModel(c, mgr,
		ui.WithStyles(ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))),
		ui.WithWidth(cfg.UI.Width),
		ui.WithModelLogger(logger),
	)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("running interactive client: %w", err)
	}
	return nil
}
