// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fontmap

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// UniqueChars returns the distinct non-whitespace characters of text in order
// of first appearance. Text is NFC-normalized first so that a precomposed
// letter and its decomposed form count once.
func UniqueChars(text string) []string {
	text = norm.NFC.String(text)

	seen := make(map[rune]struct{})
	var out []string
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, string(r))
	}
	return out
}
