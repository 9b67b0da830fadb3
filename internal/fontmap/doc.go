// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fontmap asks the generative service for a blended "mushed" font
// covering the characters of a text and turns the answer into a glyph.FontMap.
//
// The requester never fails loudly. Every problem (no credential, nothing to
// draw, transport errors, malformed output) yields an empty map and a log
// record; Request exposes the reason as a Status for callers that care.
// Elements of an otherwise valid answer are accepted one by one, so a
// partially broken response still produces the glyphs that are usable.
//
// # Usage
//
//	req := fontmap.New(fontmap.Options{APIKey: key})
//	fm := req.Generate(ctx, []string{"Inter", "Anton"}, "Hi!")
//	if fm.Len() == 0 {
//	    // fall back to random per-letter styles
//	}
package fontmap
