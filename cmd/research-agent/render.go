// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/result"
	"github.com/pdiddy/research-agent/internal/ui"
	"github.com/pdiddy/research-agent/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Display a saved structured export",
	Long: `Render reads a structured export written by "research --export" or the
interactive client (.json, .yaml, or .yml), validates it the same way a
service response is validated, and prints the summary and report.

With --print the report is printed again through the configured printer.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Bool("print", false, "print the report with the configured printer")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	res, err := readExport(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view, err := ui.Result(ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)), res, cfg.UI.Width)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), view)

	if doPrint, _ := cmd.Flags().GetBool("print"); !doPrint {
		return nil
	}
	s := types.Session{Topic: res.Topic, Status: types.StatusSuccess, Result: res}
	return runExports(cmd.Context(), cfg, s, false, true)
}

// readExport loads a structured export, choosing the decoder by extension.
func readExport(path string) (*types.ResearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var res *types.ResearchResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		res, err = result.DecodeYAML(data)
	default:
		res, err = result.Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return res, nil
}
