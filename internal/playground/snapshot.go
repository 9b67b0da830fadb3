// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"time"

	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/morph"
)

// Snapshot is a frozen copy of the session for exporters. Nothing in it
// aliases session state.
type Snapshot struct {
	Text     string         `json:"text"`
	FontSize int            `json:"font_size"`
	Kerning  float64        `json:"kerning"`
	Letters  []morph.Letter `json:"letters"`
	FontMap  glyph.FontMap  `json:"font_map,omitempty"`
	ResetKey int            `json:"reset_key"`
	TakenAt  time.Time      `json:"taken_at"`
}

// KerningPx returns the letter spacing in pixels.
func (s *Snapshot) KerningPx() float64 {
	return s.Kerning * float64(s.FontSize)
}

// Glyph returns the generated glyph for a letter, if any.
func (s *Snapshot) Glyph(l morph.Letter) (glyph.Descriptor, bool) {
	if l.IsSpace() {
		return glyph.Descriptor{}, false
	}
	d, ok := s.FontMap[l.Char]
	return d, ok
}

// Advance returns the horizontal space a letter takes, kerning included.
// Spaces are SpaceWidthEm wide; letters without a glyph use the default
// glyph width.
func (s *Snapshot) Advance(l morph.Letter) float64 {
	size := float64(s.FontSize)
	if l.IsSpace() {
		return morph.SpaceWidthEm*size + s.KerningPx()
	}
	d, ok := s.Glyph(l)
	if !ok {
		d = glyph.NewDescriptor("", 0)
	}
	return max(d.Advance(size)+s.KerningPx(), 0)
}

// LineWidth is the sum of all advances.
func (s *Snapshot) LineWidth() float64 {
	w := 0.0
	for _, l := range s.Letters {
		w += s.Advance(l)
	}
	return w
}

// UsedFonts returns the distinct fonts of non-space letters in order of
// first use.
func (s *Snapshot) UsedFonts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range s.Letters {
		if l.IsSpace() || seen[l.Style.Font] {
			continue
		}
		seen[l.Style.Font] = true
		out = append(out, l.Style.Font)
	}
	return out
}

// Timestamp returns TakenAt in Unix milliseconds, used in export file names.
func (s *Snapshot) Timestamp() int64 {
	return s.TakenAt.UnixMilli()
}
