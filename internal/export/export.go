// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export produces the two export artifacts of a successful research
// session: a structured copy of the result and a printable report. Delivery
// goes through a Sink so the manager itself never touches a browser, a
// printer, or the filesystem.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/internal/render"
	"github.com/pdiddy/research-agent/pkg/types"
)

var (
	// ErrNothingToExport is returned when the session holds no result.
	// Callers treat it as a silent no-op.
	ErrNothingToExport = errors.New("no research result to export")

	// ErrPrintFailed wraps any failure of the printable export.
	ErrPrintFailed = errors.New("printable export failed")
)

// Sink delivers export artifacts to the user.
type Sink interface {
	// WriteDownload offers content to the user as a file named name.
	WriteDownload(name string, content []byte) error

	// RequestPrint hands the rendered document to a print facility.
	RequestPrint(ctx context.Context, title string, doc *render.Document) error
}

// Manager exports successful sessions through a Sink.
type Manager struct {
	sink   Sink
	format types.ExportFormat
	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithFormat selects the structured encoding. Unknown formats fall back to
// JSON.
func WithFormat(f types.ExportFormat) Option {
	return func(m *Manager) {
		if f == types.ExportYAML {
			m.format = types.ExportYAML
		} else {
			m.format = types.ExportJSON
		}
	}
}

// NewManager returns a Manager delivering to sink.
func NewManager(sink Sink, opts ...Option) *Manager {
	m := &Manager{sink: sink, format: types.ExportJSON, logger: zap.NewNop()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// ExportStructured serializes the session's result and offers it as a
// download. It returns the file name on success. Repeated calls on the same
// session produce identical bytes.
func (m *Manager) ExportStructured(s types.Session) (string, error) {
	res, ok := exportable(s)
	if !ok {
		return "", ErrNothingToExport
	}

	content, err := StructuredContent(res, m.format)
	if err != nil {
		return "", err
	}
	name := FileName(res.Topic, m.format)

	if err := m.sink.WriteDownload(name, content); err != nil {
		m.logger.Warn("structured export failed", zap.String("file", name), zap.Error(err))
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	m.logger.Info("structured export written", zap.String("file", name), zap.Int("bytes", len(content)))
	return name, nil
}

// ExportPrintable renders the report and its sources and requests a print.
// Failures are wrapped in ErrPrintFailed and are not retried.
func (m *Manager) ExportPrintable(ctx context.Context, s types.Session) error {
	res, ok := exportable(s)
	if !ok {
		return ErrNothingToExport
	}

	doc := render.Render(res.ReportContent, res.Sources)
	title := PrintTitle(res.Topic)
	if err := m.sink.RequestPrint(ctx, title, doc); err != nil {
		m.logger.Warn("printable export failed", zap.String("title", title), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPrintFailed, err)
	}
	m.logger.Info("printable export requested", zap.String("title", title))
	return nil
}

func exportable(s types.Session) (*types.ResearchResult, bool) {
	if s.Status != types.StatusSuccess || s.Result == nil {
		return nil, false
	}
	return s.Result, true
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns the structured export file name for topic, with each
// whitespace run replaced by one underscore.
func FileName(topic string, format types.ExportFormat) string {
	ext := "json"
	if format == types.ExportYAML {
		ext = "yaml"
	}
	return "research_report_" + whitespace.ReplaceAllString(topic, "_") + "." + ext
}

// PrintTitle returns the title of the printable document for topic.
func PrintTitle(topic string) string {
	return "Research_Report_" + topic
}

// StructuredContent encodes res with its fields in declaration order and
// two-space indentation.
func StructuredContent(res *types.ResearchResult, format types.ExportFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case types.ExportYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
	}
}
