// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package morph

import (
	"fmt"
	"math/rand/v2"
)

// SpaceWidthEm is the rendered width of a space letter in em.
const SpaceWidthEm = 0.3

// SparkleCount is how many sparkles surround a hovered letter.
const SparkleCount = 4

// Letter is one character of the line with its current style.
type Letter struct {
	Char    string `json:"char"`
	Index   int    `json:"index"`
	Style   Style  `json:"style"`
	Hovered bool   `json:"hovered,omitempty"`
}

// IsSpace reports whether the letter is a space. Spaces never morph.
func (l Letter) IsSpace() bool {
	return l.Char == " "
}

// Key identifies a letter across renders. A letter keeps its style as long
// as its key is unchanged.
func (l Letter) Key(generation int) string {
	return fmt.Sprintf("%d-%d-%s", generation, l.Index, l.Char)
}

// Line is the row of letters built from the playground text. It is not safe
// for concurrent use.
type Line struct {
	letters    []Letter
	hovered    int
	generation int
}

// NewLine builds a line with every letter at DefaultStyle.
func NewLine(text string) *Line {
	l := &Line{hovered: -1}
	l.SetText(text)
	return l
}

// SetText replaces the text. Letters whose index and character are unchanged
// keep their style; the others start at DefaultStyle. A hover beyond the new
// end is dropped.
func (l *Line) SetText(text string) {
	runes := []rune(text)
	next := make([]Letter, len(runes))
	for i, r := range runes {
		ch := string(r)
		next[i] = Letter{Char: ch, Index: i, Style: DefaultStyle}
		if i < len(l.letters) && l.letters[i].Char == ch {
			next[i].Style = l.letters[i].Style
		}
	}
	l.letters = next
	if l.hovered >= len(next) {
		l.hovered = -1
	}
	if l.hovered >= 0 {
		l.letters[l.hovered].Hovered = true
	}
}

// Text returns the line's text.
func (l *Line) Text() string {
	var b []rune
	for _, lt := range l.letters {
		b = append(b, []rune(lt.Char)...)
	}
	return string(b)
}

// Len returns the number of letters.
func (l *Line) Len() int {
	return len(l.letters)
}

// Letters returns a copy of the letters.
func (l *Line) Letters() []Letter {
	out := make([]Letter, len(l.letters))
	copy(out, l.letters)
	return out
}

// Letter returns the letter at i.
func (l *Line) Letter(i int) (Letter, bool) {
	if i < 0 || i >= len(l.letters) {
		return Letter{}, false
	}
	return l.letters[i], true
}

// Generation is the reset counter; it changes every Reset.
func (l *Line) Generation() int {
	return l.generation
}

// Hovered returns the index of the hovered letter, or -1.
func (l *Line) Hovered() int {
	return l.hovered
}

// Hover moves the hover to letter i and morphs it once right away. It
// returns false if i is out of range.
func (l *Line) Hover(i int, rng *rand.Rand) bool {
	if i < 0 || i >= len(l.letters) {
		return false
	}
	if i == l.hovered {
		return true
	}
	l.Leave()
	l.hovered = i
	l.letters[i].Hovered = true
	l.morph(i, rng)
	return true
}

// Leave clears the hover. The letter keeps its last style.
func (l *Line) Leave() {
	if l.hovered >= 0 && l.hovered < len(l.letters) {
		l.letters[l.hovered].Hovered = false
	}
	l.hovered = -1
}

// Apply sets the style of letter i, as delivered by a Cycler. Spaces and
// out-of-range indexes are ignored.
func (l *Line) Apply(i int, s Style) bool {
	if i < 0 || i >= len(l.letters) || l.letters[i].IsSpace() {
		return false
	}
	l.letters[i].Style = s
	return true
}

func (l *Line) morph(i int, rng *rand.Rand) bool {
	if l.letters[i].IsSpace() {
		return false
	}
	l.letters[i].Style = Random(rng)
	return true
}

// Reset rebuilds the line from text with default styles and a new
// generation.
func (l *Line) Reset(text string) {
	l.generation++
	l.hovered = -1
	l.letters = nil
	l.SetText(text)
}

// UsedFonts returns the distinct fonts of non-space letters in order of
// first use.
func (l *Line) UsedFonts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, lt := range l.letters {
		if lt.IsSpace() || seen[lt.Style.Font] {
			continue
		}
		seen[lt.Style.Font] = true
		out = append(out, lt.Style.Font)
	}
	return out
}
