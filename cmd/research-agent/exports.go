// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/ledger"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List exported files",
	Long: `Exports lists the files written by structured and printable exports,
newest first, from the ledger kept in the export directory.`,
	Args: cobra.NoArgs,
	RunE: runListExports,
}

func init() {
	exportsCmd.Flags().Int("limit", 20, "maximum number of entries")
	exportsCmd.Flags().Bool("json", false, "output entries as JSON")
	rootCmd.AddCommand(exportsCmd)
}

func runListExports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l, err := ledger.Open(filepath.Join(cfg.Export.Dir, ledger.DBFile))
	if err != nil {
		return err
	}
	defer l.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := l.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatExports(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatExports(w io.Writer, entries []ledger.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No exports found.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-10s  %8s  %-12s  %s\n", "Created", "Kind", "Size", "SHA256", "Name")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		sum := e.SHA256
		if len(sum) > 12 {
			sum = sum[:12]
		}
		fmt.Fprintf(w, "%-20s  %-10s  %8d  %-12s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Size, sum, e.Name)
	}
	fmt.Fprintf(w, "\n%d exports\n", len(entries))
	return nil
}
