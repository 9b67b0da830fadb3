// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package playground is the interactive typemorph screen: a row of letters
// that re-style themselves while hovered, with generation, export and
// live config reload.
//
// The screen has three modes. In play mode the keys act on the letters; in
// edit mode a text input owns the keyboard until enter or esc; the export
// menu picks a format.
package playground
