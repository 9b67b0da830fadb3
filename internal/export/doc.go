// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes playground snapshots to files.
//
// # Supported Formats
//
//   - PNG: glyph paths rasterized with gg, per-letter color
//   - SVG: glyphs as <path> groups, other letters as <text>
//   - Code: an inline-styled HTML snippet plus the Google Fonts import
//   - JSON: the generated font map
//
// # Usage
//
//	exp, err := export.New(export.FormatPNG, export.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(session.Snapshot(), exp, opts)
//
// Files are named kinzas-typewriter-<unix-ms>.<ext>, or
// type-morph-snippet-<unix-ms>.txt for code snippets.
package export
