// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML_Structure(t *testing.T) {
	doc := Render("# Title\n\nBody with [ref](https://b.example).\n\n1. one\n2. two", []string{"https://a.example", "offline archive"})

	out, err := doc.HTML()
	require.NoError(t, err)

	assert.Contains(t, out, `<h2 class="report-title">Research Report</h2>`)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<ol>")
	assert.Contains(t, out, `<li class="depth-0">one</li>`)
	assert.Contains(t, out, "<h3>Sources</h3>")
	assert.Contains(t, out, "offline archive")
	assert.Contains(t, out, `href="https://a.example"`)
	assert.Contains(t, out, `href="https://b.example"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, "noopener")
	assert.Contains(t, out, "noreferrer")
}

func TestHTML_EscapesText(t *testing.T) {
	doc := &Document{
		Title: DocumentTitle,
		Blocks: []Block{
			{Kind: BlockParagraph, Spans: []Span{{Text: `<script>alert("x")</script>`}}},
			{Kind: BlockCode, Code: "<b>bold?</b>"},
		},
		Sources: []Source{{URL: "<img src=x onerror=alert(1)>"}},
	}

	out, err := doc.HTML()
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;bold?&lt;/b&gt;")
}

func TestHTML_EmptyDocument(t *testing.T) {
	out, err := Render("", nil).HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "Research Report")
	assert.Contains(t, out, "<h3>Sources</h3>")
	assert.NotContains(t, out, "<li>")
}

func TestPage_Title(t *testing.T) {
	page, err := Render("Body", nil).Page("Research_Report_Quantum Computing")
	require.NoError(t, err)

	s := string(page)
	assert.True(t, strings.HasPrefix(s, "<!DOCTYPE html>"))
	assert.Contains(t, s, "<title>Research_Report_Quantum Computing</title>")
	assert.Contains(t, s, "<p>Body</p>")
	assert.Contains(t, s, "<style>")
}

func TestPage_EscapesTitle(t *testing.T) {
	page, err := Render("", nil).Page("</title><script>x</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(page), "<script>")
}

func TestMarkdown(t *testing.T) {
	doc := Render("# Title\n\nSome *emphasis* and **strong** with `code`.\n\n- a\n  - b\n\n```\nx := 1\n```", []string{"https://a.example", "plain [text]"})

	want := "# Title\n\n" +
		"Some *emphasis* and **strong** with `` code ``.\n\n" +
		"- a\n" +
		"  - b\n\n" +
		"```\nx := 1\n```\n\n" +
		"## Sources\n\n" +
		"- <https://a.example>\n" +
		"- plain \\[text\\]\n"
	assert.Equal(t, want, doc.Markdown())
}

func TestMarkdown_NestedOrderedList(t *testing.T) {
	content := "1. a\n   1. nested\n   2. deeper\n2. b\n"
	doc := Render(content, nil)
	require.Len(t, doc.Blocks, 1)

	md := doc.Markdown()
	assert.True(t, strings.HasPrefix(md, "1. a\n   1. nested\n   2. deeper\n2. b\n\n"), md)

	again := Render(md, nil)
	require.NotEmpty(t, again.Blocks)
	if diff := cmp.Diff(doc.Blocks[0], again.Blocks[0]); diff != "" {
		t.Errorf("list changed after re-rendering markdown (-want +got):\n%s", diff)
	}
}

func TestMarkdown_WideMarkersIndentChildren(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&sb, "%d. item\n", i)
	}
	sb.WriteString("    1. child\n")
	doc := Render(sb.String(), nil)

	md := doc.Markdown()
	assert.Contains(t, md, "10. item\n    1. child\n")
	require.Len(t, doc.Blocks, 1)
	again := Render(md, nil)
	require.NotEmpty(t, again.Blocks)
	if diff := cmp.Diff(doc.Blocks[0], again.Blocks[0]); diff != "" {
		t.Errorf("list changed after re-rendering markdown (-want +got):\n%s", diff)
	}
}

func TestMarkdown_EscapesInjectedMarkup(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{Kind: BlockParagraph, Spans: []Span{{Text: "# not a heading [x](javascript:y)"}}},
	}}
	md := doc.Markdown()
	assert.True(t, strings.HasPrefix(md, `\# not a heading \[x\](javascript:y)`))
}
