// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/internal/render"
	"github.com/pdiddy/research-agent/pkg/types"
)

type download struct {
	name    string
	content []byte
}

type printRequest struct {
	title string
	doc   *render.Document
}

type fakeSink struct {
	downloads []download
	prints    []printRequest
	printErr  error
	writeErr  error
}

func (f *fakeSink) WriteDownload(name string, content []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.downloads = append(f.downloads, download{name: name, content: content})
	return nil
}

func (f *fakeSink) RequestPrint(_ context.Context, title string, doc *render.Document) error {
	if f.printErr != nil {
		return f.printErr
	}
	f.prints = append(f.prints, printRequest{title: title, doc: doc})
	return nil
}

func quantumResult() *types.ResearchResult {
	return &types.ResearchResult{
		Topic:            "Quantum Computing",
		Insights:         []string{"A", "B"},
		CredibilityScore: 85,
		ReportContent:    "# Title\nBody <b>&</b>",
		Sources:          []string{"https://a.example"},
	}
}

func successSession(res *types.ResearchResult) types.Session {
	return types.Session{ID: "s1", Topic: res.Topic, Status: types.StatusSuccess, Result: res}
}

func TestExportStructured_JSON(t *testing.T) {
	sink := &fakeSink{}
	m := NewManager(sink, WithLogger(zaptest.NewLogger(t)))

	name, err := m.ExportStructured(successSession(quantumResult()))
	require.NoError(t, err)
	assert.Equal(t, "research_report_Quantum_Computing.json", name)
	require.Len(t, sink.downloads, 1)
	assert.Equal(t, name, sink.downloads[0].name)

	content := string(sink.downloads[0].content)
	want := `{
  "topic": "Quantum Computing",
  "insights": [
    "A",
    "B"
  ],
  "credibility_score": 85,
  "report_content": "# Title\nBody <b>&</b>",
  "sources": [
    "https://a.example"
  ]
}`
	assert.Equal(t, want, content)

	var back types.ResearchResult
	require.NoError(t, json.Unmarshal(sink.downloads[0].content, &back))
	assert.Equal(t, *quantumResult(), back)
}

func TestExportStructured_Idempotent(t *testing.T) {
	sink := &fakeSink{}
	m := NewManager(sink)
	s := successSession(quantumResult())

	for i := 0; i < 3; i++ {
		_, err := m.ExportStructured(s)
		require.NoError(t, err)
	}
	require.Len(t, sink.downloads, 3)
	assert.Equal(t, sink.downloads[0], sink.downloads[1])
	assert.Equal(t, sink.downloads[0], sink.downloads[2])
}

func TestExportStructured_YAML(t *testing.T) {
	sink := &fakeSink{}
	m := NewManager(sink, WithFormat(types.ExportYAML))

	name, err := m.ExportStructured(successSession(quantumResult()))
	require.NoError(t, err)
	assert.Equal(t, "research_report_Quantum_Computing.yaml", name)

	content := string(sink.downloads[0].content)
	assert.True(t, strings.HasPrefix(content, "topic: Quantum Computing\ninsights:\n  - A\n"), content)

	var back types.ResearchResult
	require.NoError(t, yaml.Unmarshal(sink.downloads[0].content, &back))
	assert.Equal(t, *quantumResult(), back)
}

func TestExportStructured_EmptyListsStayLists(t *testing.T) {
	res := quantumResult()
	res.Insights = []string{}
	res.Sources = []string{}
	sink := &fakeSink{}

	_, err := NewManager(sink).ExportStructured(successSession(res))
	require.NoError(t, err)
	assert.Contains(t, string(sink.downloads[0].content), `"insights": []`)
	assert.Contains(t, string(sink.downloads[0].content), `"sources": []`)
}

func TestExport_NoOpOutsideSuccess(t *testing.T) {
	sessions := []types.Session{
		types.NewSession(),
		{ID: "s1", Topic: "x", Status: types.StatusLoading},
		{ID: "s1", Topic: "x", Status: types.StatusError, ErrorMessage: types.FailureMessage},
		{ID: "s1", Topic: "x", Status: types.StatusSuccess},
	}
	for _, s := range sessions {
		t.Run(string(s.Status), func(t *testing.T) {
			sink := &fakeSink{}
			m := NewManager(sink)

			_, err := m.ExportStructured(s)
			assert.ErrorIs(t, err, ErrNothingToExport)
			assert.ErrorIs(t, m.ExportPrintable(context.Background(), s), ErrNothingToExport)
			assert.Empty(t, sink.downloads)
			assert.Empty(t, sink.prints)
		})
	}
}

func TestExportStructured_SinkFailure(t *testing.T) {
	sink := &fakeSink{writeErr: errors.New("disk full")}
	_, err := NewManager(sink).ExportStructured(successSession(quantumResult()))
	assert.ErrorContains(t, err, "disk full")
}

func TestExportPrintable(t *testing.T) {
	sink := &fakeSink{}
	m := NewManager(sink)

	require.NoError(t, m.ExportPrintable(context.Background(), successSession(quantumResult())))
	require.Len(t, sink.prints, 1)

	req := sink.prints[0]
	assert.Equal(t, "Research_Report_Quantum Computing", req.title)
	require.Len(t, req.doc.Blocks, 2)
	assert.Equal(t, "Title", req.doc.Blocks[0].Text())
	assert.Equal(t, []render.Source{{URL: "https://a.example", Href: "https://a.example"}}, req.doc.Sources)

	// Insights belong to the on-screen summary, not the printable report.
	for _, b := range req.doc.Blocks {
		assert.NotContains(t, b.Text(), "Key Insights")
	}
}

func TestExportPrintable_FailureIsWrapped(t *testing.T) {
	sink := &fakeSink{printErr: errors.New("popup blocked")}
	s := successSession(quantumResult())

	err := NewManager(sink).ExportPrintable(context.Background(), s)
	assert.ErrorIs(t, err, ErrPrintFailed)
	assert.ErrorContains(t, err, "popup blocked")
	assert.Equal(t, types.StatusSuccess, s.Status)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Quantum Computing", "research_report_Quantum_Computing.json"},
		{"AI  in\thealthcare", "research_report_AI_in_healthcare.json"},
		{"single", "research_report_single.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.topic, types.ExportJSON))
	}
	assert.Equal(t, "research_report_a_b.yaml", FileName("a b", types.ExportYAML))
}
