// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package morph implements the local per-letter styling: a fixed vocabulary
// of display fonts, colors and weights, letters that re-roll their style
// while hovered, and a timer that drives the re-rolls.
package morph

import (
	"math/rand/v2"
	"strings"
)

// Fonts are the display families letters morph between.
var Fonts = []string{
	"Inter",
	"Playfair Display",
	"Space Grotesk",
	"JetBrains Mono",
	"Anton",
	"Libre Baskerville",
	"Cormorant Garamond",
	"Montserrat",
	"Bebas Neue",
	"Abril Fatface",
	"Unbounded",
	"Coral Pixels",
	"DM Mono",
	"EB Garamond",
	"Handjet",
	"Jacquard 12",
	"New Amsterdam",
	"Raleway Dots",
	"Bonbon",
	"Lacquer",
	"Rubik 80s Fade",
	"UnifrakturMaguntia",
}

// Colors is the morph palette.
var Colors = []string{
	"#FF4CA9",
	"#0FE641",
	"#FF6600",
	"#874FFF",
	"#6BD0EA",
	"#F5D100",
	"#000000",
}

// Weights are the CSS font weights letters morph between.
var Weights = []int{100, 200, 300, 400, 500, 600, 700, 800, 900}

// Style is the visual state of one letter.
type Style struct {
	Font   string `json:"font"`
	Color  string `json:"color"`
	Weight int    `json:"weight"`
}

// DefaultStyle is the style of a letter that has never been hovered.
var DefaultStyle = Style{Font: "Inter", Color: "#1a1a1a", Weight: 400}

// IsDefault reports whether s equals DefaultStyle.
func (s Style) IsDefault() bool {
	return s == DefaultStyle
}

// Bold reports whether the weight renders as bold in a terminal.
func (s Style) Bold() bool {
	return s.Weight >= 600
}

// Faint reports whether the weight renders as faint in a terminal.
func (s Style) Faint() bool {
	return s.Weight <= 300
}

// Random picks a font, color and weight uniformly and independently.
func Random(rng *rand.Rand) Style {
	return Style{
		Font:   Fonts[rng.IntN(len(Fonts))],
		Color:  Colors[rng.IntN(len(Colors))],
		Weight: Weights[rng.IntN(len(Weights))],
	}
}

// NewRand returns a generator seeded from the runtime's entropy source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand returns a deterministic generator for tests and replays.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// IsKnownFont reports whether name is in Fonts, ignoring case.
func IsKnownFont(name string) bool {
	for _, f := range Fonts {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// Assign gives every character of text a random style, with spaces kept at
// DefaultStyle. It is the fallback when no generated font map is available.
func Assign(text string, rng *rand.Rand) []Style {
	runes := []rune(text)
	out := make([]Style, len(runes))
	for i, r := range runes {
		if r == ' ' {
			out[i] = DefaultStyle
			continue
		}
		out[i] = Random(rng)
	}
	return out
}
