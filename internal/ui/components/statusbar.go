// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/typemorph/internal/ui/styles"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is what the playground is doing.
type Status int

const (
	StatusReady Status = iota
	StatusEditing
	StatusGenerating
	StatusExporting
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusEditing:
		return "Editing"
	case StatusGenerating:
		return "Generating..."
	case StatusExporting:
		return "Exporting..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape shown next to the status color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusGenerating, StatusExporting:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "~"
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the line under the canvas.
type StatusBar struct {
	Status   Status
	FontSize int
	Kerning  float64
	Glyphs   int
	Hovered  string
	Model    string
	Cached   bool
	Width    int

	theme *styles.Theme
}

// NewStatusBar creates a status bar drawn with theme.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Status: StatusReady, Width: 80, theme: theme}
}

// SetWidth updates the available width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the bar, dropping segments from the right until it fits.
func (s *StatusBar) View() string {
	t := s.theme
	sep := t.Muted.Render(" | ")

	status := s.Status.Icon() + " " + s.Status.String()
	switch s.Status {
	case StatusError:
		status = t.Error.Render(status)
	case StatusGenerating, StatusExporting:
		status = t.Warning.Render(status)
	default:
		status = t.Success.Render(status)
	}

	segments := []string{
		status,
		s.kv("size", fmt.Sprintf("%dpx", s.FontSize)),
		s.kv("kerning", fmt.Sprintf("%.2fem", s.Kerning)),
		s.kv("glyphs", fmt.Sprint(s.Glyphs)),
	}
	if s.Hovered != "" {
		segments = append(segments, s.kv("font", s.Hovered))
	}
	if s.Model != "" {
		model := s.Model
		if s.Cached {
			model += " +cache"
		}
		segments = append(segments, t.Muted.Render(model))
	}

	inner := s.Width - 2
	for len(segments) > 1 && lipgloss.Width(strings.Join(segments, sep)) > inner {
		segments = segments[:len(segments)-1]
	}
	return t.StatusBar.Width(max(s.Width, 0)).Render(strings.Join(segments, sep))
}

func (s *StatusBar) kv(key, value string) string {
	return s.theme.StatusKey.Render(key) + " " + s.theme.StatusValue.Render(value)
}
