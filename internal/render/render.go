// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a markdown research report and its source list into
// a structured Document. The report is untrusted text: raw HTML is reduced
// to inert text and links keep only http, https, and mailto destinations.
// A Document can be emitted as sanitized HTML for printing or as normalized
// markdown for terminal display.
package render

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	// DocumentTitle heads every rendered report.
	DocumentTitle = "Research Report"

	// SourcesTitle heads the sources section.
	SourcesTitle = "Sources"

	maxHeadingLevel = 3
)

// BlockKind identifies the type of a Block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockCode      BlockKind = "code"
)

// Span is a run of inline text sharing one style.
type Span struct {
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
	Strong   bool   `json:"strong,omitempty"`
	Code     bool   `json:"code,omitempty"`
	// Link is the sanitized destination when the span is a link.
	Link string `json:"link,omitempty"`
}

// ListItem is one entry of a list. Nested lists are flattened into their
// parent with a greater Depth.
type ListItem struct {
	Depth int    `json:"depth"`
	Spans []Span `json:"spans"`
}

// Block is one block-level element of the report, in source order.
type Block struct {
	Kind BlockKind `json:"kind"`

	// Level is the heading level, 1 to 3.
	Level int `json:"level,omitempty"`

	// Spans holds the inline content of headings and paragraphs.
	Spans []Span `json:"spans,omitempty"`

	Ordered bool       `json:"ordered,omitempty"`
	Items   []ListItem `json:"items,omitempty"`

	// Code is the literal content of a code block.
	Code string `json:"code,omitempty"`
}

// Text returns the plain text of the block.
func (b Block) Text() string {
	switch b.Kind {
	case BlockList:
		lines := make([]string, len(b.Items))
		for i, item := range b.Items {
			lines[i] = spansText(item.Spans)
		}
		return strings.Join(lines, "\n")
	case BlockCode:
		return b.Code
	default:
		return spansText(b.Spans)
	}
}

// Source is one entry of the sources section.
type Source struct {
	// URL is the source as supplied.
	URL string `json:"url"`
	// Href is the link target, empty when URL is not an absolute http(s)
	// URL and the source is shown as plain text.
	Href string `json:"href,omitempty"`
}

// Document is a rendered research report.
type Document struct {
	Title   string   `json:"title"`
	Blocks  []Block  `json:"blocks"`
	Sources []Source `json:"sources"`
}

var (
	markdown = goldmark.New()
	strict   = bluemonday.StrictPolicy()
)

// Render parses reportContent and attaches sources in their given order.
// An empty report yields no blocks; empty sources yield an empty section.
func Render(reportContent string, sources []string) *Document {
	doc := &Document{
		Title:   DocumentTitle,
		Blocks:  []Block{},
		Sources: make([]Source, 0, len(sources)),
	}

	if strings.TrimSpace(reportContent) != "" {
		src := []byte(reportContent)
		b := &builder{src: src, out: []Block{}}
		b.children(markdown.Parser().Parse(text.NewReader(src)))
		doc.Blocks = b.out
	}

	for _, s := range sources {
		doc.Sources = append(doc.Sources, Source{URL: s, Href: safeURL(s, false)})
	}
	return doc
}

type builder struct {
	src []byte
	out []Block
}

func (b *builder) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.block(c)
	}
}

func (b *builder) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		if spans := b.inlines(n); len(spans) > 0 {
			b.out = append(b.out, Block{Kind: BlockHeading, Level: min(n.Level, maxHeadingLevel), Spans: spans})
		}
	case *ast.Paragraph, *ast.TextBlock:
		if spans := b.inlines(n); len(spans) > 0 {
			b.out = append(b.out, Block{Kind: BlockParagraph, Spans: spans})
		}
	case *ast.List:
		blk := Block{Kind: BlockList, Ordered: n.IsOrdered()}
		b.listItems(n, 0, &blk)
		if len(blk.Items) > 0 {
			b.out = append(b.out, blk)
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if code := strings.TrimRight(b.lines(n), "\n"); code != "" {
			b.out = append(b.out, Block{Kind: BlockCode, Code: code})
		}
	case *ast.HTMLBlock:
		raw := b.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(b.src))
		}
		if t := inertText(raw); t != "" {
			b.out = append(b.out, Block{Kind: BlockParagraph, Spans: []Span{{Text: t}}})
		}
	case *ast.ThematicBreak:
	default:
		b.children(n)
	}
}

func (b *builder) listItems(list *ast.List, depth int, blk *Block) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var spans []Span
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.List:
				nested = append(nested, c)
			case *ast.FencedCodeBlock, *ast.CodeBlock:
				spans = appendSeparated(spans, []Span{{Text: strings.TrimSpace(b.lines(c)), Code: true}})
			case *ast.HTMLBlock:
				spans = appendSeparated(spans, []Span{{Text: inertText(b.lines(c))}})
			default:
				spans = appendSeparated(spans, b.inlines(c))
			}
		}
		if spans = normalize(spans); len(spans) > 0 {
			blk.Items = append(blk.Items, ListItem{Depth: depth, Spans: spans})
		}
		for _, l := range nested {
			b.listItems(l, depth+1, blk)
		}
	}
}

func (b *builder) inlines(n ast.Node) []Span {
	var out []Span
	b.inline(n, Span{}, &out)
	return normalize(out)
}

func (b *builder) inline(parent ast.Node, style Span, out *[]Span) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			v := c.Segment.Value(b.src)
			if !style.Code && !c.IsRaw() {
				v = decodeText(v)
			}
			*out = append(*out, style.with(string(v)))
			if c.SoftLineBreak() || c.HardLineBreak() {
				*out = append(*out, style.with(" "))
			}
		case *ast.String:
			*out = append(*out, style.with(string(c.Value)))
		case *ast.CodeSpan:
			s := style
			s.Code = true
			b.inline(c, s, out)
		case *ast.Emphasis:
			s := style
			if c.Level >= 2 {
				s.Strong = true
			} else {
				s.Emphasis = true
			}
			b.inline(c, s, out)
		case *ast.Link:
			s := style
			s.Link = safeURL(string(c.Destination), true)
			b.inline(c, s, out)
		case *ast.AutoLink:
			s := style
			s.Link = safeURL(string(c.URL(b.src)), true)
			*out = append(*out, s.with(string(c.Label(b.src))))
		case *ast.RawHTML:
			var raw strings.Builder
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				raw.Write(seg.Value(b.src))
			}
			if t := html.UnescapeString(strict.Sanitize(raw.String())); t != "" {
				*out = append(*out, style.with(t))
			}
		default:
			b.inline(c, style, out)
		}
	}
}

func (b *builder) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	return sb.String()
}

func (s Span) with(t string) Span {
	s.Text = t
	return s
}

func (s Span) sameStyle(o Span) bool {
	return s.Emphasis == o.Emphasis && s.Strong == o.Strong && s.Code == o.Code && s.Link == o.Link
}

// normalize drops empty spans, merges neighbours with the same style, and
// trims outer whitespace.
func normalize(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].sameStyle(s) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	out[0].Text = strings.TrimLeft(out[0].Text, " \t\n")
	last := len(out) - 1
	out[last].Text = strings.TrimRight(out[last].Text, " \t\n")
	if out[last].Text == "" {
		out = out[:last]
	}
	if len(out) > 0 && out[0].Text == "" {
		out = out[1:]
	}
	return out
}

func appendSeparated(spans, more []Span) []Span {
	if len(more) == 0 {
		return spans
	}
	if len(spans) > 0 {
		spans = append(spans, Span{Text: " "})
	}
	return append(spans, more...)
}

func spansText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// decodeText resolves backslash escapes and character references in
// markdown text.
func decodeText(v []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}

// inertText strips all markup from raw HTML, dropping script and style
// content, and collapses whitespace.
func inertText(raw string) string {
	return strings.Join(strings.Fields(html.UnescapeString(strict.Sanitize(raw))), " ")
}

// safeURL returns raw when it is an absolute http(s) URL, or a mailto URL
// when allowMailto is set; otherwise it returns "".
func safeURL(raw string, allowMailto bool) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return ""
		}
		return u.String()
	case "mailto":
		if allowMailto && u.Opaque != "" {
			return u.String()
		}
	}
	return ""
}
