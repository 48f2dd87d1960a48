// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/export"
	"github.com/pdiddy/research-agent/internal/session"
	"github.com/pdiddy/research-agent/internal/ui"
	"github.com/pdiddy/research-agent/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic...]",
	Short: "Run one research session and print the result",
	Long: `Research submits the topic to the research service, waits for the
session to finish, and prints the key insights, credibility score, and
report. With --export the result is then saved as a structured file
(json or yaml) and/or printed (pdf).

The command exits non-zero when the session ends in error.`,
	Args: cobra.ArbitraryArgs,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().StringSlice("export", nil, "exports to produce after success: json, yaml, pdf")
	researchCmd.Flags().Int("width", 0, "report wrap width (ui.width)")
	_ = viper.BindPFlag("ui.width", researchCmd.Flags().Lookup("width"))

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	exports, _ := cmd.Flags().GetStringSlice("export")
	structured, printable, err := parseExports(exports)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if structured != "" {
		cfg.Export.Format = types.ExportFormat(structured)
	}

	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	m := session.New(c, session.WithLogger(logger))
	defer m.Close()

	topic := strings.Join(args, " ")
	if _, err := m.Submit(topic); err != nil {
		if errors.Is(err, types.ErrEmptyTopic) {
			return fmt.Errorf("%s", types.UserMessage(err))
		}
		return err
	}
	fmt.Fprintf(os.Stderr, "Researching %q against %s...\n", strings.TrimSpace(topic), c.Endpoint())

	s, err := m.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for research: %w", err)
	}

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	out := cmd.OutOrStdout()
	if s.Status == types.StatusError {
		fmt.Fprintln(os.Stderr, ui.ErrorBox(styles, s.ErrorMessage))
		return errors.New(s.ErrorMessage)
	}

	view, err := ui.Result(styles, s.Result, cfg.UI.Width)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, view)

	if structured == "" && !printable {
		return nil
	}
	return runExports(ctx, cfg, s, structured != "", printable)
}

// parseExports maps --export values to a structured format and a printable
// flag.
func parseExports(values []string) (string, bool, error) {
	var structured string
	var printable bool
	for _, v := range values {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "json":
			structured = string(types.ExportJSON)
		case "yaml", "yml":
			structured = string(types.ExportYAML)
		case "pdf", "print":
			printable = true
		case "":
		default:
			return "", false, fmt.Errorf("unknown export %q: use json, yaml, or pdf", v)
		}
	}
	return structured, printable, nil
}

func runExports(ctx context.Context, cfg types.Config, s types.Session, structured, printable bool) error {
	mgr, closeLedger, err := newExporter(cfg)
	if err != nil {
		return err
	}
	defer closeLedger()
	return exportSession(ctx, os.Stderr, mgr, cfg.Export.Dir, s, structured, printable)
}

// exportSession attempts each requested export independently. A failed
// print is reported on w and does not fail the command.
func exportSession(ctx context.Context, w io.Writer, exp ui.Exporter, dir string, s types.Session, structured, printable bool) error {
	var errs []error
	if structured {
		if name, err := exp.ExportStructured(s); err != nil {
			errs = append(errs, err)
		} else {
			fmt.Fprintf(w, "Saved %s in %s\n", name, dir)
		}
	}
	if printable {
		switch err := exp.ExportPrintable(ctx, s); {
		case errors.Is(err, export.ErrPrintFailed):
			logger.Warn("printable export failed", zap.Error(err))
			fmt.Fprintf(w, "Printable export failed: %v\n", err)
		case err != nil:
			errs = append(errs, err)
		default:
			fmt.Fprintf(w, "Printed %s in %s\n", export.PrintTitle(s.Topic), dir)
		}
	}
	return errors.Join(errs...)
}
