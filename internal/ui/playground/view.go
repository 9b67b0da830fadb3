// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/typemorph/internal/export"
	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/morph"
	"github.com/jeranaias/typemorph/internal/ui/components"
	"github.com/jeranaias/typemorph/internal/ui/styles"
)

// maxGap caps the cells between letters at the widest kerning.
const maxGap = 10

// View renders the playground.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Type Morph"))
	b.WriteString("  ")
	b.WriteString(m.theme.Subtitle.Render(m.subtitle()))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Canvas.Render(m.renderCanvas()))
	b.WriteString("\n")

	switch m.mode {
	case modeEdit:
		b.WriteString(m.theme.InputLabel.Render("Text"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeExport:
		b.WriteString(m.renderMenu())
		b.WriteString("\n")
	}

	m.syncStatus()
	b.WriteString(m.status.View())
	b.WriteString("\n")

	for _, t := range m.toasts.Toasts() {
		b.WriteString(components.RenderToast(m.theme, t, m.width))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeEdit:
		b.WriteString(m.help.View(m.keys.editHelp()))
	case modeExport:
		b.WriteString(m.help.View(m.keys.menuHelp()))
	default:
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) subtitle() string {
	switch {
	case m.generating:
		return "generating a blended font..."
	case m.mode == modeEdit:
		return "type, then enter"
	case m.mode == modeExport:
		return "choose a format"
	default:
		return "hover letters to morph them"
	}
}

// syncStatus copies session state into the status bar.
func (m Model) syncStatus() {
	s := m.status
	s.FontSize = m.session.FontSize()
	s.Kerning = m.session.Kerning()
	s.Glyphs = m.session.FontMap().Len()
	s.Hovered = ""
	if i := m.session.Hovered(); i >= 0 {
		if letters := m.session.Letters(); i < len(letters) {
			s.Hovered = letters[i].Style.Font
		}
	}
	switch {
	case m.generating:
		s.Status = components.StatusGenerating
	case m.exporting:
		s.Status = components.StatusExporting
	case m.mode == modeEdit:
		s.Status = components.StatusEditing
	default:
		s.Status = components.StatusReady
	}
}

// =============================================================================
// CANVAS
// =============================================================================

// renderCanvas draws three rows: sparkles above the hovered letter, the
// letters, and a marker row with ^ under the hovered letter and · under
// letters that have a generated glyph.
func (m Model) renderCanvas() string {
	letters := m.session.Letters()
	if len(letters) == 0 {
		return m.theme.Muted.Render("(empty)")
	}
	fm := m.session.FontMap()
	gap := kerningGap(m.session.Kerning())
	hovered := m.session.Hovered()

	var top, mid, bottom strings.Builder
	for i, l := range letters {
		w := cellWidth(l.Char)
		pad := strings.Repeat(" ", gap)
		if i == len(letters)-1 {
			pad = ""
		}

		mid.WriteString(m.renderLetter(l))
		mid.WriteString(pad)

		above, below := strings.Repeat(" ", w), strings.Repeat(" ", w)
		switch {
		case i == hovered:
			if m.cfg.UI.Sparkles {
				above = inSlot(m.theme.Sparkle.Render(sparkleFrame(m.sparkle)), w)
			}
			below = inSlot(m.theme.Marker.Render("^"), w)
		case hasGlyph(fm, l):
			below = inSlot(m.theme.Muted.Render("·"), w)
		}
		top.WriteString(above + pad)
		bottom.WriteString(below + pad)
	}
	return strings.Join([]string{top.String(), mid.String(), bottom.String()}, "\n")
}

func (m Model) renderLetter(l morph.Letter) string {
	if l.IsSpace() {
		return " "
	}
	return m.theme.Letter(l.Style).Render(l.Char)
}

func (m Model) renderMenu() string {
	var lines []string
	for i, f := range export.Formats {
		label := fmt.Sprintf("%d  %s", i+1, formatLabel(f))
		if i == m.menuIndex {
			lines = append(lines, m.theme.MenuSelected.Render("> "+label))
		} else {
			lines = append(lines, m.theme.MenuItem.Render("  "+label))
		}
	}
	return m.theme.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatLabel(f export.Format) string {
	switch f {
	case export.FormatPNG:
		return "PNG image"
	case export.FormatSVG:
		return "SVG vector"
	case export.FormatSnippet:
		return "HTML/CSS snippet"
	case export.FormatJSON:
		return "Font map JSON"
	default:
		return string(f)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// kerningGap approximates kerning in terminal cells: one cell per 0.1em.
func kerningGap(em float64) int {
	gap := int(math.Round(em * 10))
	return min(max(gap, 0), maxGap)
}

// cellWidth is the terminal width of a letter; zero-width runes still take
// a cell so the rows stay aligned.
func cellWidth(s string) int {
	return max(runewidth.StringWidth(s), 1)
}

// inSlot places a one-cell mark at the start of a w-cell slot.
func inSlot(mark string, w int) string {
	return mark + strings.Repeat(" ", w-1)
}

func sparkleFrame(n int) string {
	return styles.SparkleFrames[n%len(styles.SparkleFrames)]
}

func hasGlyph(fm glyph.FontMap, l morph.Letter) bool {
	return !l.IsSpace() && fm.Has(l.Char)
}
