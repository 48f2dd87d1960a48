// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/ledger"
	"github.com/pdiddy/research-agent/internal/render"
)

// Printer turns a print-ready HTML page into a printable artifact.
type Printer interface {
	// Print returns the artifact bytes for page.
	Print(ctx context.Context, page []byte) ([]byte, error)

	// Ext is the artifact file extension without the dot.
	Ext() string
}

// Recorder records written artifacts. *ledger.Ledger implements it.
type Recorder interface {
	Record(ctx context.Context, e ledger.Entry) (ledger.Entry, error)
}

// FileSink writes downloads and printed reports into Dir.
type FileSink struct {
	Dir     string
	Printer Printer

	// Recorder is optional; when set every artifact is recorded.
	Recorder Recorder

	Logger *zap.Logger
}

// WriteDownload implements Sink.
func (f *FileSink) WriteDownload(name string, content []byte) error {
	_, err := f.write(context.Background(), name, content, ledger.KindStructured)
	return err
}

// RequestPrint implements Sink. The artifact is named after title with the
// printer's extension.
func (f *FileSink) RequestPrint(ctx context.Context, title string, doc *render.Document) error {
	if f.Printer == nil {
		return fmt.Errorf("no printer configured")
	}
	page, err := doc.Page(title)
	if err != nil {
		return err
	}
	data, err := f.Printer.Print(ctx, page)
	if err != nil {
		return fmt.Errorf("printing %s: %w", title, err)
	}
	_, err = f.write(ctx, title+"."+f.Printer.Ext(), data, ledger.KindPrintable)
	return err
}

func (f *FileSink) write(ctx context.Context, name string, content []byte, kind ledger.Kind) (string, error) {
	name = safeName(name)
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(f.Dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if f.Recorder != nil {
		sum := sha256.Sum256(content)
		_, err := f.Recorder.Record(ctx, ledger.Entry{
			Name:   name,
			Kind:   kind,
			Path:   path,
			Size:   int64(len(content)),
			SHA256: hex.EncodeToString(sum[:]),
		})
		if err != nil {
			// The file is already on disk; a ledger failure does not undo it.
			f.logger().Warn("recording export", zap.String("path", path), zap.Error(err))
		}
	}
	f.logger().Debug("export written", zap.String("path", path), zap.String("kind", string(kind)))
	return path, nil
}

func (f *FileSink) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

var nameReplacer = strings.NewReplacer("/", "_", `\`, "_", "\x00", "")

// safeName keeps name inside the export directory.
func safeName(name string) string {
	name = nameReplacer.Replace(name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "export"
	}
	return name
}
