// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/pdiddy/research-agent/pkg/types"
)

// NewPrinter returns the printer selected by cfg. Chrome is the default.
func NewPrinter(cfg types.ExportConfig) Printer {
	if cfg.Printer == types.PrinterHTML {
		return HTMLPrinter{}
	}
	return &ChromePrinter{ExecPath: cfg.ChromePath}
}

// ChromePrinter prints pages to PDF with a headless Chrome or Chromium.
type ChromePrinter struct {
	// ExecPath overrides the browser executable. Empty uses chromedp's
	// lookup of the usual install locations.
	ExecPath string
}

// Ext implements Printer.
func (c *ChromePrinter) Ext() string { return "pdf" }

// Print implements Printer. Each call starts and stops its own browser.
func (c *ChromePrinter) Print(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("getting frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	return pdf, nil
}

// HTMLPrinter emits the print-ready page itself, for printing from any
// browser.
type HTMLPrinter struct{}

// Ext implements Printer.
func (HTMLPrinter) Ext() string { return "html" }

// Print implements Printer.
func (HTMLPrinter) Print(_ context.Context, html []byte) ([]byte, error) {
	return html, nil
}
