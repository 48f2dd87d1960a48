// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui is the terminal presentation layer: lipgloss styles for the
// result summary and error states, glamour rendering of reports, and the
// interactive bubbletea program. Nothing here affects session or export
// behaviour; themes only change colours.
package ui

import (
	"strings"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/research-agent/pkg/types"
)

// Theme is a colour scheme.
type Theme struct {
	Name       string
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Badge      lipgloss.Color
	High       lipgloss.Color
	Mid        lipgloss.Color
	Low        lipgloss.Color
	Danger     lipgloss.Color
	IsDark     bool

	// Glamour names the glamour standard style used for reports.
	Glamour string
}

// LightTheme is the default blue on gray scheme.
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		Foreground: lipgloss.Color("#1f2937"),
		Primary:    lipgloss.Color("#2563eb"),
		Muted:      lipgloss.Color("#6b7280"),
		Border:     lipgloss.Color("#e5e7eb"),
		Badge:      lipgloss.Color("#dbeafe"),
		High:       lipgloss.Color("#15803d"),
		Mid:        lipgloss.Color("#a16207"),
		Low:        lipgloss.Color("#b91c1c"),
		Danger:     lipgloss.Color("#ef4444"),
		Glamour:    styles.LightStyle,
	}
}

// DarkTheme is the scheme for dark terminals.
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Foreground: lipgloss.Color("#f3f4f6"),
		Primary:    lipgloss.Color("#60a5fa"),
		Muted:      lipgloss.Color("#9ca3af"),
		Border:     lipgloss.Color("#374151"),
		Badge:      lipgloss.Color("#1e3a8a"),
		High:       lipgloss.Color("#4ade80"),
		Mid:        lipgloss.Color("#facc15"),
		Low:        lipgloss.Color("#f87171"),
		Danger:     lipgloss.Color("#f87171"),
		IsDark:     true,
		Glamour:    styles.DarkStyle,
	}
}

// ThemeByName returns the named theme. Unknown names yield the light theme.
func ThemeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), "dark") {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the styled components built from a Theme.
type Styles struct {
	Theme Theme

	Header    lipgloss.Style
	Accent    lipgloss.Style
	Subtitle  lipgloss.Style
	Heading   lipgloss.Style
	Label     lipgloss.Style
	Number    lipgloss.Style
	Body      lipgloss.Style
	Card      lipgloss.Style
	ErrorBox  lipgloss.Style
	Notice    lipgloss.Style
	Help      lipgloss.Style
	Spinner   lipgloss.Style
	badgeBase lipgloss.Style
}

// NewStyles builds the styles for theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme:    theme,
		Header:   lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		Accent:   lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Foreground(theme.Muted),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground).MarginBottom(1),
		Label:    lipgloss.NewStyle().Foreground(theme.Muted),
		Number: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			Background(theme.Badge).
			Width(4).
			Align(lipgloss.Center),
		Body: lipgloss.NewStyle().Foreground(theme.Foreground),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
		ErrorBox: lipgloss.NewStyle().
			Foreground(theme.Danger).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(theme.Danger).
			PaddingLeft(1),
		Notice:    lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
		Help:      lipgloss.NewStyle().Foreground(theme.Muted),
		Spinner:   lipgloss.NewStyle().Foreground(theme.Primary),
		badgeBase: lipgloss.NewStyle().Bold(true).Padding(0, 1),
	}
}

// Badge returns the credibility badge style for score's tier.
func (s Styles) Badge(score int) lipgloss.Style {
	return s.badgeBase.Foreground(s.TierColor(types.TierFor(score)))
}

// TierColor returns the theme colour of tier.
func (s Styles) TierColor(tier types.CredibilityTier) lipgloss.Color {
	switch tier {
	case types.TierHigh:
		return s.Theme.High
	case types.TierMid:
		return s.Theme.Mid
	default:
		return s.Theme.Low
	}
}
