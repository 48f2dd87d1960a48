// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// outputPolicy is applied to every HTML fragment. External links open in a
// new browsing context and carry noopener and noreferrer.
var outputPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

const fragmentHTML = `{{define "spans"}}{{range .}}{{if .Link}}<a href="{{.Link}}" target="_blank" rel="noopener noreferrer">{{end}}{{if .Strong}}<strong>{{end}}{{if .Emphasis}}<em>{{end}}{{if .Code}}<code>{{.Text}}</code>{{else}}{{.Text}}{{end}}{{if .Emphasis}}</em>{{end}}{{if .Strong}}</strong>{{end}}{{if .Link}}</a>{{end}}{{end}}{{end}}
<article class="research-report">
<h2 class="report-title">{{.Title}}</h2>
<div class="report-body">
{{range .Blocks}}{{if eq .Kind "heading"}}{{if eq .Level 1}}<h1>{{template "spans" .Spans}}</h1>{{else if eq .Level 2}}<h2>{{template "spans" .Spans}}</h2>{{else}}<h3>{{template "spans" .Spans}}</h3>{{end}}
{{else if eq .Kind "paragraph"}}<p>{{template "spans" .Spans}}</p>
{{else if eq .Kind "list"}}{{if .Ordered}}<ol>{{else}}<ul>{{end}}{{range .Items}}<li class="depth-{{.Depth}}">{{template "spans" .Spans}}</li>{{end}}{{if .Ordered}}</ol>{{else}}</ul>{{end}}
{{else if eq .Kind "code"}}<pre><code>{{.Code}}</code></pre>
{{end}}{{end}}</div>
<section class="sources">
<h3>` + SourcesTitle + `</h3>
<ul>{{range .Sources}}<li>{{if .Href}}<a href="{{.Href}}" target="_blank" rel="noopener noreferrer">{{.URL}}</a>{{else}}{{.URL}}{{end}}</li>{{end}}</ul>
</section>
</article>
`

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

const printCSS = `body { font-family: Georgia, "Times New Roman", serif; color: #1f2937; margin: 2.5rem; line-height: 1.55; }
.report-title { font-size: 1.5rem; border-bottom: 1px solid #e5e7eb; padding-bottom: 0.75rem; }
h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; page-break-after: avoid; }
pre { background: #f3f4f6; padding: 0.75rem; white-space: pre-wrap; }
li.depth-1 { margin-left: 1.5rem; } li.depth-2 { margin-left: 3rem; } li.depth-3 { margin-left: 4.5rem; }
.sources { border-top: 1px solid #e5e7eb; margin-top: 2rem; padding-top: 1rem; }
.sources a { color: #2563eb; word-break: break-all; }`

var (
	fragmentTmpl = template.Must(template.New("fragment").Parse(fragmentHTML))
	pageTmpl     = template.Must(template.New("page").Parse(pageHTML))
)

// HTML returns the document as a sanitized HTML fragment.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := fragmentTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return outputPolicy.Sanitize(buf.String()), nil
}

// Page returns a complete print-ready HTML page titled title.
func (d *Document) Page(title string) ([]byte, error) {
	body, err := d.HTML()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title string
		CSS   template.CSS
		Body  template.HTML
	}{
		Title: title,
		CSS:   template.CSS(printCSS),
		Body:  template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}
