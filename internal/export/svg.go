// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"

	"github.com/jeranaias/typemorph/internal/playground"
)

// =============================================================================
// SVG EXPORTER
// =============================================================================

// SVGExporter writes the snapshot as an SVG document. Generated glyphs become
// <path> elements in a translated and scaled group; other letters are emitted
// as <text> in their display font so a browser with the fonts installed
// renders them as shown in the playground.
type SVGExporter struct {
	options *Options
}

// NewSVGExporter creates a new SVG exporter.
func NewSVGExporter(opts *Options) *SVGExporter {
	return &SVGExporter{options: opts.orDefault()}
}

// Export renders the snapshot to SVG bytes.
func (e *SVGExporter) Export(snap *playground.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	lay := NewLayout(snap, e.options.Padding)
	w, h := lay.PixelSize()

	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w, h, w, h)
	fmt.Fprintf(&b, "  <title>%s</title>\n", html.EscapeString(snap.Text))
	if e.options.Background != "" {
		fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(e.options.Background))
	}

	for _, it := range lay.Items {
		if it.Letter.IsSpace() {
			continue
		}
		st := it.Letter.Style
		if it.HasGlyph {
			fmt.Fprintf(&b, `  <g transform="translate(%s %s) scale(%s)" fill="%s">`+"\n",
				num(it.X), num(lay.Top), num(lay.Scale), html.EscapeString(st.Color))
			fmt.Fprintf(&b, `    <path d="%s"/>`+"\n", html.EscapeString(it.Path.String()))
			b.WriteString("  </g>\n")
			continue
		}
		fmt.Fprintf(&b, `  <text x="%s" y="%s" font-family="%s" font-weight="%d" font-size="%d" fill="%s">%s</text>`+"\n",
			num(it.X), num(lay.Baseline()), html.EscapeString("'"+st.Font+"'"), st.Weight,
			snap.FontSize, html.EscapeString(st.Color), html.EscapeString(it.Letter.Char))
	}

	b.WriteString("</svg>\n")
	return b.Bytes(), nil
}

// FileExtension returns the file extension for SVG.
func (e *SVGExporter) FileExtension() string {
	return ".svg"
}

// MimeType returns the MIME type for SVG.
func (e *SVGExporter) MimeType() string {
	return "image/svg+xml"
}

// num formats a coordinate to three decimals without trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}
