// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/typemorph/internal/morph"
)

// Theme holds the styled pieces of the playground screen.
type Theme struct {
	ColorProfile termenv.Profile
	renderer     *lipgloss.Renderer

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Canvas   lipgloss.Style
	Sparkle  lipgloss.Style
	Marker   lipgloss.Style

	Input      lipgloss.Style
	InputLabel lipgloss.Style

	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style

	Menu         lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme builds the theme for the detected color profile.
func NewTheme() *Theme {
	return NewThemeForProfile(termenv.ColorProfile())
}

// NewThemeForProfile builds the theme for profile. With Ascii every style
// renders plain text.
func NewThemeForProfile(profile termenv.Profile) *Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(lipgloss.HasDarkBackground())
	s := r.NewStyle

	return &Theme{
		ColorProfile: profile,
		renderer:     r,

		Title:    s().Foreground(Purple).Bold(true),
		Subtitle: s().Foreground(TextSecondary),
		Canvas: s().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Overlay).
			Padding(1, 3),
		Sparkle: s().Foreground(Amber),
		Marker:  s().Foreground(Purple).Bold(true),

		Input:      s().Foreground(TextPrimary),
		InputLabel: s().Foreground(Cyan).Bold(true),

		StatusBar:   s().Background(SurfaceDim).Foreground(TextSecondary).Padding(0, 1),
		StatusKey:   s().Foreground(Cyan),
		StatusValue: s().Foreground(TextPrimary),

		Menu: s().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Purple).
			Padding(0, 2),
		MenuItem:     s().Foreground(TextSecondary),
		MenuSelected: s().Foreground(Purple).Bold(true),

		Success: s().Foreground(Emerald),
		Warning: s().Foreground(Amber),
		Error:   s().Foreground(Rose),
		Muted:   s().Foreground(TextMuted),
	}
}

// Plain reports whether the theme renders without colors.
func (t *Theme) Plain() bool {
	return t.ColorProfile == termenv.Ascii
}

// Letter styles one playground letter: its color, bold from weight 600,
// faint up to weight 300.
func (t *Theme) Letter(st morph.Style) lipgloss.Style {
	out := t.renderer.NewStyle().Foreground(lipgloss.Color(st.Color))
	if st.Bold() {
		out = out.Bold(true)
	}
	if st.Faint() {
		out = out.Faint(true)
	}
	return out
}
