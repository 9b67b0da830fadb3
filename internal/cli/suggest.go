// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - Typo suggestions for command and font names.
package cli

import (
	"strings"

	"github.com/jeranaias/typemorph/internal/morph"
)

// validCommands lists every command and alias Parse accepts.
var validCommands = []string{
	"tui",
	"play",
	"generate",
	"gen",
	"export",
	"fonts",
	"config",
	"cache",
	"update",
	"version",
	"help",
}

// SuggestCommand returns the closest valid command, or "" if nothing is
// close enough.
func SuggestCommand(input string) string {
	return closest(strings.ToLower(input), validCommands)
}

// SuggestFont returns the closest known font name, compared
// case-insensitively, or "".
func SuggestFont(input string) string {
	lower := make([]string, len(morph.Fonts))
	for i, f := range morph.Fonts {
		lower[i] = strings.ToLower(f)
	}
	match := closest(strings.ToLower(input), lower)
	for i, l := range lower {
		if l == match && match != "" {
			return morph.Fonts[i]
		}
	}
	return ""
}

// closest returns the candidate within an edit budget that grows with the
// input length: 1 edit up to 3 runes, 2 up to 8, then 3.
func closest(input string, candidates []string) string {
	if len(input) < 2 {
		return ""
	}

	maxDistance := 1
	if len(input) >= 4 {
		maxDistance = 2
	}
	if len(input) > 8 {
		maxDistance = 3
	}

	bestMatch := ""
	bestDistance := -1
	for _, c := range candidates {
		distance := levenshteinDistance(input, c)
		if distance == 0 {
			return ""
		}
		if distance <= maxDistance && (bestDistance == -1 || distance < bestDistance) {
			bestDistance = distance
			bestMatch = c
		}
	}
	return bestMatch
}

// levenshteinDistance is the number of single-rune insertions, deletions or
// substitutions between s1 and s2.
func levenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
