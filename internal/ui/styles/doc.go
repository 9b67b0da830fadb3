// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the palette and theme of the typemorph TUI.
// Colors are lipgloss AdaptiveColors so light and dark terminals both work.
// Letter styles themselves come from the morph vocabulary, not from here.
package styles
