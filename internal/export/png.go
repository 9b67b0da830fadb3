// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/jeranaias/typemorph/internal/playground"
)

// =============================================================================
// PNG EXPORTER
// =============================================================================

// PNGExporter rasterizes the glyph paths of a snapshot. Letters without a
// generated glyph are drawn as a tinted block of their advance width, since
// the display fonts are not available to the rasterizer.
type PNGExporter struct {
	options *Options
}

// NewPNGExporter creates a new PNG exporter.
func NewPNGExporter(opts *Options) *PNGExporter {
	return &PNGExporter{options: opts.orDefault()}
}

// Export renders the snapshot to PNG bytes.
func (e *PNGExporter) Export(snap *playground.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	lay := NewLayout(snap, e.options.Padding)
	w, h := lay.PixelSize()
	dc := gg.NewContext(w, h)
	defer dc.Close()

	bg := e.options.Background
	if bg == "" {
		bg = "#ffffff"
	}
	dc.ClearWithColor(gg.Hex(bg))
	dc.SetFillRule(gg.FillRuleNonZero)

	for _, it := range lay.Items {
		if it.Letter.IsSpace() {
			continue
		}
		if it.HasGlyph {
			dc.SetHexColor(it.Letter.Style.Color)
			dc.Push()
			dc.Translate(it.X, lay.Top)
			dc.Scale(lay.Scale, lay.Scale)
			it.Path.Replay(dc)
			err := dc.Fill()
			dc.Pop()
			if err != nil {
				return nil, fmt.Errorf("fill glyph %q: %w", it.Letter.Char, err)
			}
			continue
		}

		c := gg.Hex(it.Letter.Style.Color)
		dc.SetRGBA(c.R, c.G, c.B, 0.25)
		inset := 0.1 * it.Advance
		dc.DrawRoundedRectangle(it.X+inset, lay.Top+0.15*float64(snap.FontSize),
			max(it.Advance-2*inset, 1), 0.7*float64(snap.FontSize), 0.05*float64(snap.FontSize))
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill placeholder %q: %w", it.Letter.Char, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for PNG.
func (e *PNGExporter) FileExtension() string {
	return ".png"
}

// MimeType returns the MIME type for PNG.
func (e *PNGExporter) MimeType() string {
	return "image/png"
}
