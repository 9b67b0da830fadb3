// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"math"

	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/morph"
	"github.com/jeranaias/typemorph/internal/playground"
	"github.com/jeranaias/typemorph/internal/svgpath"
)

// MaxCanvasWidth caps the pixel width of a layout. Letters past it are
// cropped.
const MaxCanvasWidth = 16384.0

// Placement is one letter positioned on the export canvas.
type Placement struct {
	Letter  morph.Letter
	X       float64
	Advance float64

	// Glyph is set when the font map has a parseable path for the letter.
	Glyph    glyph.Descriptor
	Path     svgpath.Path
	HasGlyph bool
}

// Layout positions a snapshot's letters on a single line. Glyphs live in a
// 100x100 design box scaled to the font size; the box top sits at Top.
type Layout struct {
	Width   float64
	Height  float64
	Top     float64
	Scale   float64
	Padding float64
	Items   []Placement
}

// NewLayout lays out snap with the given padding on every side.
func NewLayout(snap *playground.Snapshot, padding float64) *Layout {
	size := float64(snap.FontSize)
	lay := &Layout{
		Top:     padding,
		Scale:   size / glyph.CoordinateSpace,
		Padding: padding,
		Items:   make([]Placement, 0, len(snap.Letters)),
	}

	x := padding
	for _, l := range snap.Letters {
		p := Placement{Letter: l, X: x, Advance: snap.Advance(l)}
		if d, ok := snap.Glyph(l); ok {
			if path, err := svgpath.Parse(d.Path); err == nil && len(path) > 0 {
				p.Glyph = d
				p.Path = path
				p.HasGlyph = true
			}
		}
		lay.Items = append(lay.Items, p)
		x += p.Advance
	}

	lay.Width = math.Min(math.Max(x+padding, 2*padding), MaxCanvasWidth)
	lay.Height = size + 2*padding
	return lay
}

// PixelSize returns the canvas size rounded up to whole pixels.
func (l *Layout) PixelSize() (int, int) {
	w := int(math.Ceil(l.Width))
	h := int(math.Ceil(l.Height))
	return max(w, 1), max(h, 1)
}

// Baseline is the y coordinate used for text fallbacks, near the bottom of
// the glyph box.
func (l *Layout) Baseline() float64 {
	return l.Top + 0.8*glyph.CoordinateSpace*l.Scale
}
