// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/typemorph/internal/ui/styles"
)

func plainTheme() *styles.Theme {
	return styles.NewThemeForProfile(termenv.Ascii)
}

// =============================================================================
// TOASTS
// =============================================================================

func TestToastManager_ExpiresByKind(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToastManager()
	m.SetClock(func() time.Time { return now })

	m.AddSuccess("saved")
	m.AddError("failed")
	require.Len(t, m.Tick(), 2)

	now = now.Add(DefaultToastDuration)
	got := m.Tick()
	require.Len(t, got, 1)
	assert.Equal(t, "failed", got[0].Message)

	now = now.Add(ErrorToastDuration)
	assert.Empty(t, m.Tick())
}

func TestToastManager_NewestFirstAndCapped(t *testing.T) {
	m := NewToastManager()
	for _, msg := range []string{"a", "b", "c", "d"} {
		m.AddStatus(msg)
	}
	got := m.Toasts()
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].Message)
	assert.Equal(t, "b", got[2].Message)

	m.Clear()
	assert.Empty(t, m.Toasts())
}

func TestToastManager_UniqueIDs(t *testing.T) {
	m := NewToastManager()
	a := m.AddWarning("x")
	b := m.AddWarning("x")
	assert.NotEqual(t, a, b)
}

func TestRenderToast(t *testing.T) {
	theme := plainTheme()
	out := RenderToast(theme, Toast{Kind: ToastKindError, Message: "no API key"}, 0)
	assert.Equal(t, "[X] no API key", out)

	out = RenderToast(theme, Toast{Kind: ToastKindSuccess, Message: strings.Repeat("x", 50)}, 20)
	assert.LessOrEqual(t, lipgloss.Width(out), 20)
	assert.True(t, strings.HasPrefix(out, "[OK]"))
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatus_StringAndIcon(t *testing.T) {
	assert.Equal(t, "Generating...", StatusGenerating.String())
	assert.Equal(t, "Unknown", Status(42).String())
	assert.Equal(t, styles.StatusIndicators.Error, StatusError.Icon())
}

func TestStatusBar_View(t *testing.T) {
	bar := NewStatusBar(plainTheme())
	bar.FontSize = 120
	bar.Kerning = 0.05
	bar.Glyphs = 7
	bar.Hovered = "Anton"
	bar.Model = "gemini-3-flash-preview"
	bar.Cached = true
	bar.SetWidth(200)

	out := bar.View()
	assert.Contains(t, out, "Ready")
	assert.Contains(t, out, "size 120px")
	assert.Contains(t, out, "kerning 0.05em")
	assert.Contains(t, out, "glyphs 7")
	assert.Contains(t, out, "font Anton")
	assert.Contains(t, out, "+cache")
}

func TestStatusBar_DropsSegmentsWhenNarrow(t *testing.T) {
	bar := NewStatusBar(plainTheme())
	bar.FontSize = 120
	bar.Model = "gemini-3-flash-preview"
	bar.SetWidth(40)

	out := bar.View()
	assert.Contains(t, out, "Ready")
	assert.NotContains(t, out, "gemini")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}
