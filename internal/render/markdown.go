// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`&`, `\&`,
)

// Markdown returns the document, including its sources section, as
// normalized markdown. Text is escaped so it cannot introduce new markup.
func (d *Document) Markdown() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		switch b.Kind {
		case BlockHeading:
			sb.WriteString(strings.Repeat("#", b.Level) + " " + mdSpans(b.Spans) + "\n\n")
		case BlockParagraph:
			sb.WriteString(mdSpans(b.Spans) + "\n\n")
		case BlockList:
			// counts and cols are indexed by depth. cols holds the content
			// column of the latest item at each depth, where its children start.
			var counts, cols []int
			for _, item := range b.Items {
				d := item.Depth
				counts = counts[:min(d+1, len(counts))]
				for len(counts) <= d {
					counts = append(counts, 0)
				}
				counts[d]++
				marker := "-"
				if b.Ordered {
					marker = fmt.Sprintf("%d.", counts[d])
				}
				indent := 0
				if d > 0 && d <= len(cols) {
					indent = cols[d-1]
				}
				cols = append(cols[:min(d, len(cols))], indent+len(marker)+1)
				sb.WriteString(strings.Repeat(" ", indent) + marker + " " + mdSpans(item.Spans) + "\n")
			}
			sb.WriteString("\n")
		case BlockCode:
			fence := "```"
			for strings.Contains(b.Code, fence) {
				fence += "`"
			}
			sb.WriteString(fence + "\n" + b.Code + "\n" + fence + "\n\n")
		}
	}

	sb.WriteString("## " + SourcesTitle + "\n\n")
	for _, s := range d.Sources {
		if s.Href != "" {
			sb.WriteString("- <" + s.Href + ">\n")
		} else {
			sb.WriteString("- " + mdEscaper.Replace(s.URL) + "\n")
		}
	}
	return sb.String()
}

func mdSpans(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		t := mdEscaper.Replace(s.Text)
		if s.Code {
			t = "`` " + strings.ReplaceAll(s.Text, "``", "` `") + " ``"
		}
		if s.Emphasis {
			t = "*" + t + "*"
		}
		if s.Strong {
			t = "**" + t + "**"
		}
		if s.Link != "" {
			t = "[" + t + "](<" + s.Link + ">)"
		}
		sb.WriteString(t)
	}
	return sb.String()
}
