// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/research-agent/internal/render"
	"github.com/pdiddy/research-agent/pkg/types"
)

// AppSubtitle is the line under the banner.
const AppSubtitle = "Autonomous deep research, straight to your terminal."

// Header renders the application banner.
func Header(s Styles) string {
	title := s.Header.Render("AI Research ") + s.Accent.Render("Agent")
	return lipgloss.JoinVertical(lipgloss.Left, title, s.Subtitle.Render(AppSubtitle))
}

// Summary renders the key insights, numbered from 1, with the credibility
// badge.
func Summary(s Styles, res *types.ResearchResult) string {
	badge := s.Badge(res.CredibilityScore).Render(fmt.Sprintf("%d/100", res.CredibilityScore))
	head := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Heading.UnsetMarginBottom().Render("Key Insights"),
		"  ",
		s.Label.Render("Credibility Score: "),
		badge,
	)

	lines := []string{head, ""}
	for i, insight := range res.Insights {
		lines = append(lines, s.Number.Render(fmt.Sprintf("%d", i+1))+" "+s.Body.Render(insight))
	}
	if len(res.Insights) == 0 {
		lines = append(lines, s.Notice.Render("No insights returned."))
	}
	return s.Card.Render(strings.Join(lines, "\n"))
}

// Report renders doc for the terminal with the theme's glamour style,
// wrapped at width.
func Report(s Styles, doc *render.Document, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(s.Theme.Glamour),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render("# " + doc.Title + "\n\n" + doc.Markdown())
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}

// ErrorBox renders a user-facing error message.
func ErrorBox(s Styles, msg string) string {
	return s.ErrorBox.Render(msg)
}

// Notice renders an informational line, such as an export confirmation.
func Notice(s Styles, msg string) string {
	return s.Notice.Render(msg)
}

// Result renders a successful session: summary followed by the report.
func Result(s Styles, res *types.ResearchResult, width int) (string, error) {
	report, err := Report(s, render.Render(res.ReportContent, res.Sources), width)
	if err != nil {
		return "", err
	}
	return Summary(s, res) + "\n" + report, nil
}
